package handler

import (
	"net/http"
	"strconv"

	"github.com/beevik/etree"
	"github.com/budgetbox/backend/internal/models"
)

// writeStatementXML renders a statement as an XML document for export
// into accounting tools.
func (h *Handler) writeStatementXML(w http.ResponseWriter, statement *models.Statement) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Statement")

	account := root.CreateElement("Account")
	account.CreateElement("ID").SetText(statement.Account.ID)
	account.CreateElement("Name").SetText(statement.Account.Name)
	account.CreateElement("Bank").SetText(statement.Account.Bank)
	account.CreateElement("Type").SetText(statement.Account.Type)
	account.CreateElement("Number").SetText(statement.Account.AccountNumber)

	period := root.CreateElement("Period")
	period.CreateElement("StartDate").SetText(statement.Period.StartDate)
	period.CreateElement("EndDate").SetText(statement.Period.EndDate)
	period.CreateElement("Days").SetText(strconv.Itoa(statement.Period.Days))

	balances := root.CreateElement("Balances")
	balances.CreateElement("Opening").SetText(statement.Balances.Opening.StringFixed(2))
	balances.CreateElement("Closing").SetText(statement.Balances.Closing.StringFixed(2))
	balances.CreateElement("Current").SetText(statement.Balances.Current.StringFixed(2))

	summary := root.CreateElement("Summary")
	summary.CreateElement("TotalCredits").SetText(statement.Summary.TotalCredits.StringFixed(2))
	summary.CreateElement("TotalDebits").SetText(statement.Summary.TotalDebits.StringFixed(2))
	summary.CreateElement("NetChange").SetText(statement.Summary.NetChange.StringFixed(2))
	summary.CreateElement("TransactionCount").SetText(strconv.Itoa(statement.Summary.TransactionCount))

	lines := root.CreateElement("Transactions")
	for _, line := range statement.Transactions {
		tx := lines.CreateElement("Transaction")
		tx.CreateElement("Date").SetText(line.Date)
		tx.CreateElement("Description").SetText(line.Description)
		tx.CreateElement("Category").SetText(line.Category)
		tx.CreateElement("Amount").SetText(line.Amount.StringFixed(2))
		tx.CreateElement("Balance").SetText(line.Balance.StringFixed(2))
		tx.CreateElement("Type").SetText(line.Type)
		if line.Reference != "" {
			tx.CreateElement("Reference").SetText(line.Reference)
		}
	}

	doc.Indent(2)
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	doc.WriteTo(w)
}
