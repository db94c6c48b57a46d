package main

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/efrisio/go-efris-client/efris/api"
	"github.com/efrisio/go-efris-client/efris/config"
	"github.com/efrisio/go-efris-client/efris/keys"
	"github.com/efrisio/go-efris-client/efris/model"
	"github.com/efrisio/go-efris-client/efris/util"
)

func main() {

	if util.DebugEnabled() {
		logrus.SetLevel(logrus.DebugLevel)
	}

	company, err := config.Load(util.GetEnvOrFailed("EFRIS_CONFIG"))
	if err != nil {
		panic(err)
	}

	key, _, err := keys.LoadPKCS12(company.CertPath, company.CertPassword)
	if err != nil {
		panic(err)
	}

	clock := clockwork.NewRealClock()
	client := api.New(company.Env)
	transport := api.NewTransport(client, key, company.TIN, company.DeviceNo, company.Operator, clock)
	sessions := api.NewSessionManager(transport, company.KeyTTL.Std(), clock)
	sender := &api.Sender{Transport: transport, Sessions: sessions}

	registration, err := sessions.Registration()
	if err != nil {
		panic(err)
	}

	fmt.Println(registration.Taxpayer.TIN)
	fmt.Println(registration.Taxpayer.LegalName)

	invoices := api.NewInvoiceService(sender)
	page, err := invoices.Query(model.InvoiceQuery{PageNo: "1", PageSize: "10"})
	if err != nil {
		panic(err)
	}

	for _, record := range page.Records {
		fmt.Println(record.InvoiceNo, record.GrossAmount, record.IssuedDate)
	}
}
