package pos

import "testing"

func TestCart_AddMergesSameItem(t *testing.T) {
	c := &Cart{}
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, ItemName: "Shampoo", Qty: 1, UnitPriceCents: 1500})
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, ItemName: "Shampoo", Qty: 2, UnitPriceCents: 1500})

	if len(c.Lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(c.Lines))
	}
	if c.Lines[0].Qty != 3 {
		t.Fatalf("expected qty 3, got %d", c.Lines[0].Qty)
	}
}

func TestCart_SameIDDifferentTypeAreSeparateLines(t *testing.T) {
	c := &Cart{}
	c.Add(Line{ItemID: "x", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: 100})
	c.Add(Line{ItemID: "x", ItemType: ItemTypeService, Qty: 1, UnitPriceCents: 200})

	if len(c.Lines) != 2 {
		t.Fatalf("expected 2 lines for same id different type, got %d", len(c.Lines))
	}
}

func TestCart_SetQty(t *testing.T) {
	c := &Cart{}
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: 100})

	if !c.SetQty("p1", ItemTypeProduct, 5) {
		t.Fatalf("expected SetQty to succeed")
	}
	if c.Lines[0].Qty != 5 {
		t.Fatalf("expected qty 5, got %d", c.Lines[0].Qty)
	}

	// qty <= 0 no borra la línea, solo rechaza
	if c.SetQty("p1", ItemTypeProduct, 0) {
		t.Fatalf("expected SetQty(0) to be rejected")
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected line to survive rejected SetQty")
	}

	if c.SetQty("missing", ItemTypeProduct, 1) {
		t.Fatalf("expected SetQty on missing item to fail")
	}
}

func TestCart_Remove(t *testing.T) {
	c := &Cart{}
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: 100})
	c.Add(Line{ItemID: "p2", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: 200})

	if !c.Remove("p1", ItemTypeProduct) {
		t.Fatalf("expected Remove to succeed")
	}
	if len(c.Lines) != 1 || c.Lines[0].ItemID != "p2" {
		t.Fatalf("expected only p2 left")
	}
	if c.Remove("p1", ItemTypeProduct) {
		t.Fatalf("expected second Remove to fail")
	}
}

func TestCart_Totals(t *testing.T) {
	c := &Cart{}
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, Qty: 2, UnitPriceCents: 1500}) // 3000
	c.Add(Line{ItemID: "s1", ItemType: ItemTypeService, Qty: 1, UnitPriceCents: 5000}) // 5000

	if got := c.Subtotal(); got != 8000 {
		t.Fatalf("subtotal = %d, want 8000", got)
	}
	// 12% de 8000 = 960 exacto
	if got := c.Tax(); got != 960 {
		t.Fatalf("tax = %d, want 960", got)
	}
	if got := c.Total(); got != 8960 {
		t.Fatalf("total = %d, want 8960", got)
	}
}

func TestCart_TaxRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int
		wantTax  int
	}{
		{100, 12}, // 12.00
		{104, 12}, // 12.48 -> 12
		{105, 13}, // 12.60 -> 13
		{1, 0},    // 0.12 -> 0
		{5, 1},    // 0.60 -> 1
		{4, 0},    // 0.48 -> 0
	}
	for _, tc := range cases {
		c := &Cart{}
		c.Add(Line{ItemID: "p", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: tc.subtotal})
		if got := c.Tax(); got != tc.wantTax {
			t.Errorf("tax(%d) = %d, want %d", tc.subtotal, got, tc.wantTax)
		}
	}
}

func TestCart_ClearAndEmpty(t *testing.T) {
	c := &Cart{}
	if !c.IsEmpty() {
		t.Fatalf("new cart should be empty")
	}
	c.Add(Line{ItemID: "p1", ItemType: ItemTypeProduct, Qty: 1, UnitPriceCents: 100})
	if c.IsEmpty() {
		t.Fatalf("cart with line should not be empty")
	}
	c.Clear()
	if !c.IsEmpty() {
		t.Fatalf("cleared cart should be empty")
	}
}
