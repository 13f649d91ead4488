package pos

// taxRatePercent es el IVA fijo del POS (12%).
const taxRatePercent = 12

// Cart es el estado vivo de una caja. Antes vivía como array file-scope en la
// página del POS; acá es un objeto por operador, construido al abrir la caja
// y descartado al cerrar sesión.
type Cart struct {
	Lines []Line
}

// Add mergea por (ItemID, ItemType): mismo ítem suma qty, no duplica línea.
func (c *Cart) Add(l Line) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == l.ItemID && c.Lines[i].ItemType == l.ItemType {
			c.Lines[i].Qty += l.Qty
			return
		}
	}
	c.Lines = append(c.Lines, l)
}

// SetQty fija la cantidad de una línea. qty <= 0 no es un remove implícito:
// eso lo decide el caller con Remove.
func (c *Cart) SetQty(itemID string, itemType ItemType, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID && c.Lines[i].ItemType == itemType {
			c.Lines[i].Qty = qty
			return true
		}
	}
	return false
}

func (c *Cart) Remove(itemID string, itemType ItemType) bool {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID && c.Lines[i].ItemType == itemType {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal = Σ(precio_i · qty_i), en centavos.
func (c *Cart) Subtotal() int {
	total := 0
	for _, l := range c.Lines {
		total += l.UnitPriceCents * l.Qty
	}
	return total
}

// Tax = round(subtotal · 12%), redondeo half-up en centavos.
func (c *Cart) Tax() int {
	return (c.Subtotal()*taxRatePercent + 50) / 100
}

func (c *Cart) Total() int {
	return c.Subtotal() + c.Tax()
}
