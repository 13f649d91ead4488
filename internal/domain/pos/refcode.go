package pos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newTransactionCode genera el código legible de la venta: TXN-YYYYMMDD-XXXXXX.
// Duplicado a propósito del generador de appointments (mismo criterio que
// writeJSON: sin helpers compartidos prematuros).
func newTransactionCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), suffix)
}
