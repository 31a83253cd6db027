package invoicing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikalp/backend/internal/domain/shared"
)

func validDraft() *Draft {
	dr := NewDraft()
	dr.CustomerID = "cust-1"
	_ = dr.UpdateItem(0, repairItem())
	return dr
}

func TestNewDraft(t *testing.T) {
	dr := NewDraft()

	require.Len(t, dr.Items, 1)
	item := dr.Items[0]
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.UnitPrice.IsZero())
	assert.Equal(t, UnitPcs, item.Per)
	assert.True(t, item.Discount.IsZero())
	assert.Equal(t, GST18, item.GSTPercent)
	assert.Equal(t, PaymentUnpaid, dr.PaymentStatus)
}

func TestDraft_Items(t *testing.T) {
	t.Run("add and remove", func(t *testing.T) {
		dr := NewDraft()
		idx := dr.AddItem()
		assert.Equal(t, 1, idx)
		require.Len(t, dr.Items, 2)

		require.NoError(t, dr.RemoveItem(0))
		assert.Len(t, dr.Items, 1)
	})

	t.Run("last item cannot be removed", func(t *testing.T) {
		dr := NewDraft()
		err := dr.RemoveItem(0)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		assert.Len(t, dr.Items, 1)
	})

	t.Run("out of range index", func(t *testing.T) {
		dr := NewDraft()
		assert.ErrorIs(t, dr.UpdateItem(3, NewLineItem()), shared.ErrInvalidInput)
		assert.ErrorIs(t, dr.RemoveItem(-1), shared.ErrInvalidInput)
	})

	t.Run("totals follow edits", func(t *testing.T) {
		dr := validDraft()
		assert.True(t, dr.Totals().GrandTotal.Equal(d("1062")))

		dr.AddItem()
		require.NoError(t, dr.UpdateItem(1, repairItem()))
		assert.True(t, dr.Totals().GrandTotal.Equal(d("2124")))
	})
}

func TestDraft_Validate(t *testing.T) {
	t.Run("valid draft", func(t *testing.T) {
		assert.NoError(t, validDraft().Validate())
	})

	t.Run("missing customer", func(t *testing.T) {
		dr := validDraft()
		dr.CustomerID = ""

		err := dr.Validate()
		var verrs shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "Please select a customer", verrs.First())
	})

	t.Run("default item fails on price", func(t *testing.T) {
		dr := NewDraft()
		dr.CustomerID = "cust-1"
		dr.Items[0].ServiceName = "Fridge repair"

		err := dr.Validate()
		var verrs shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 1)
		assert.Equal(t, "items[0].unitPrice", verrs[0].Field)
		assert.Equal(t, "Please enter a valid price for Fridge repair", verrs[0].Message)
	})

	t.Run("collects every item problem", func(t *testing.T) {
		dr := validDraft()
		dr.Items = append(dr.Items, LineItem{
			ServiceName: "  ",
			Quantity:    0,
			UnitPrice:   d("-1"),
			Discount:    d("120"),
			GSTPercent:  GSTRate(7),
			Per:         UnitOfMeasure("Litre"),
		})

		err := dr.Validate()
		var verrs shared.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Len(t, verrs, 6)
		assert.Equal(t, "Service name cannot be empty", verrs[0].Message)
	})

	t.Run("no items", func(t *testing.T) {
		dr := validDraft()
		dr.Items = nil
		assert.ErrorContains(t, dr.Validate(), "at least one service item")
	})
}

func TestDraft_Submit(t *testing.T) {
	now := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC)

	t.Run("assigns number and date", func(t *testing.T) {
		inv, err := validDraft().Submit(now, "VE/2025-26/0001")
		require.NoError(t, err)
		assert.Equal(t, "VE/2025-26/0001", inv.InvoiceNumber)
		assert.Equal(t, now, inv.InvoiceDate)
		assert.Equal(t, "cust-1", inv.CustomerID)
		assert.Equal(t, PaymentUnpaid, inv.PaymentStatus)
	})

	t.Run("keeps number typed by the user", func(t *testing.T) {
		dr := validDraft()
		dr.InvoiceNumber = "VE-77"
		inv, err := dr.Submit(now, "VE/2025-26/0001")
		require.NoError(t, err)
		assert.Equal(t, "VE-77", inv.InvoiceNumber)
	})

	t.Run("missing unit defaults to Pcs", func(t *testing.T) {
		dr := validDraft()
		dr.Items[0].Per = ""
		inv, err := dr.Submit(now, "VE-1")
		require.NoError(t, err)
		assert.Equal(t, UnitPcs, inv.Items[0].Per)
	})

	t.Run("invalid draft yields no invoice", func(t *testing.T) {
		dr := validDraft()
		dr.Items[0].Quantity = 0
		inv, err := dr.Submit(now, "VE-1")
		assert.Nil(t, inv)
		assert.ErrorContains(t, err, "Please enter a valid quantity for AC gas refill")
	})
}
