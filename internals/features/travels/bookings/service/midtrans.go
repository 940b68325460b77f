package service

import (
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"travelku_backend/internals/features/travels/bookings/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(inv model.Invoice, p model.Pilgrim, itemName string) (string, string, error) {
	if inv.InvoiceAmountIDR <= 0 {
		return "", "", errors.New("invalid invoice_amount_idr")
	}
	if strings.TrimSpace(inv.InvoiceMidtransOrderID) == "" {
		return "", "", errors.New("invoice_midtrans_order_id is required (used as OrderID)")
	}

	first, last := splitName(p.PilgrimName)

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  inv.InvoiceMidtransOrderID,
			GrossAmt: inv.InvoiceAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: first,
			LName: last,
			Email: p.PilgrimEmail,
			Phone: p.PilgrimPhone,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
	}

	req.Items = &[]midtrans.ItemDetails{
		{
			ID:       inv.InvoiceMidtransOrderID,
			Price:    inv.InvoiceAmountIDR,
			Qty:      1,
			Name:     truncate(itemName, 50),
			Category: "Travel",
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Utils
========================================================= */

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "Jamaah", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
