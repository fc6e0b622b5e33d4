package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"service-booking/pkg/apperr"
	"service-booking/pkg/utils"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"
)

// Customer adalah data pembeli yang dikirim ke gateway.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Session adalah hasil pembuatan transaksi Snap.
type Session struct {
	Token       string
	RedirectURL string
}

// TransactionStatus adalah status transaksi dari endpoint otoritatif gateway.
type TransactionStatus struct {
	OrderID           string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	PaymentType       string
	SettlementTime    string
}

// Client abstraksi payment gateway supaya usecase bisa ditest dengan fake.
type Client interface {
	CreateSession(referenceNo string, grossAmount int64, customer Customer) (*Session, error)
	GetTransactionStatus(referenceNo string) (*TransactionStatus, error)
	VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool
}

type midtransClient struct {
	snap      snap.Client
	core      coreapi.Client
	serverKey string
	log       *zap.Logger
}

// NewMidtransClient dibuat sekali saat bootstrap lalu di-inject ke usecase.
func NewMidtransClient(config utils.MidtransConfig, log *zap.Logger) Client {
	env := midtrans.Sandbox
	if config.Production {
		env = midtrans.Production
	}

	// Jangan pakai timeout default 1 menit untuk call sinkron
	midtrans.DefaultGoHttpClient = &http.Client{Timeout: 15 * time.Second}

	c := &midtransClient{
		serverKey: config.ServerKey,
		log:       log.With(zap.String("gateway", "midtrans")),
	}
	c.snap.New(config.ServerKey, env)
	c.core.New(config.ServerKey, env)

	return c
}

func (c *midtransClient) CreateSession(referenceNo string, grossAmount int64, customer Customer) (*Session, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  referenceNo,
			GrossAmt: grossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    referenceNo,
				Price: grossAmount,
				Qty:   1,
				Name:  "Service booking",
			},
		},
	}

	resp, err := c.snap.CreateTransaction(req)
	if err != nil {
		c.log.Error("Failed to create snap transaction",
			zap.Error(err),
			zap.String("reference_no", referenceNo),
			zap.Int64("gross_amount", grossAmount),
		)
		return nil, apperr.Wrap(apperr.KindGateway,
			fmt.Sprintf("create payment session for %s", referenceNo), err)
	}

	return &Session{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

func (c *midtransClient) GetTransactionStatus(referenceNo string) (*TransactionStatus, error) {
	resp, err := c.core.CheckTransaction(referenceNo)
	if err != nil {
		c.log.Error("Failed to check transaction status",
			zap.Error(err),
			zap.String("reference_no", referenceNo),
		)
		return nil, apperr.Wrap(apperr.KindGateway,
			fmt.Sprintf("check transaction status for %s", referenceNo), err)
	}

	return &TransactionStatus{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		StatusCode:        resp.StatusCode,
		GrossAmount:       resp.GrossAmount,
		PaymentType:       resp.PaymentType,
		SettlementTime:    resp.SettlementTime,
	}, nil
}

// VerifySignature mengecek signature_key dari notifikasi webhook:
// sha512(order_id + status_code + gross_amount + server_key)
func (c *midtransClient) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	payload := orderID + statusCode + grossAmount + c.serverKey
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:]) == signatureKey
}
