package cart

import "github.com/shopspring/decimal"

// Pricing policy. Fixed by the storefront, not configuration: a flat fee
// below the free-shipping threshold and a 10% tax on the subtotal.
var (
	taxRate               = decimal.RequireFromString("0.1")
	freeShippingThreshold = decimal.NewFromInt(5000)
	flatShippingFee       = decimal.NewFromInt(300)
)

// Subtotal is the sum of price times quantity over all lines.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subtotalLocked()
}

func (m *Manager) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range m.items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Tax is the subtotal times the fixed tax rate. No rounding is applied;
// callers format for display.
func (m *Manager) Tax() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taxLocked()
}

func (m *Manager) taxLocked() decimal.Decimal {
	return m.subtotalLocked().Mul(taxRate)
}

// Shipping is zero above the free-shipping threshold, otherwise the flat fee.
func (m *Manager) Shipping() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shippingLocked()
}

func (m *Manager) shippingLocked() decimal.Decimal {
	if m.subtotalLocked().GreaterThan(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingFee
}

// Total is subtotal plus tax plus shipping, recomputed on demand so it is
// always consistent with the current cart contents.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subtotalLocked().Add(m.taxLocked()).Add(m.shippingLocked())
}
