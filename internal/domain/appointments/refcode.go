package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newBookingCode genera el código legible del turno: APPT-YYYYMMDD-XXXXXX.
// No es la PK (eso es el uuid); es solo para mostrar y buscar a mano.
func newBookingCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("APPT-%s-%s", now.Format("20060102"), suffix)
}
