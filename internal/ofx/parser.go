// Package ofx parses OFX/QFX bank statements into expenses.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/outlay-cli/outlay/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX statement and returns the debit transactions
// as expenses. Credits (deposits, refunds) are skipped: this is an expense
// ledger, not a full register.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Expense, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var expenses []model.Expense
	var skippedCredits int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				if expense, ok := p.convertTransaction(tx); ok {
					expenses = append(expenses, expense)
				} else {
					skippedCredits++
				}
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				if expense, ok := p.convertTransaction(tx); ok {
					expenses = append(expenses, expense)
				} else {
					skippedCredits++
				}
			}
		}
	}

	p.logger.Info("parsed OFX file",
		"expenses", len(expenses),
		"skipped_credits", skippedCredits,
	)

	return expenses, nil
}

// convertTransaction maps an OFX transaction to an expense. Returns false
// for credits, which are not expenses.
func (p *Parser) convertTransaction(tx ofxgo.Transaction) (model.Expense, bool) {
	// OFX amounts are negative for debits.
	amount, _ := tx.TrnAmt.Float64()
	if amount >= 0 {
		return model.Expense{}, false
	}

	expense := model.Expense{
		Amount:      -amount,
		Category:    categorize(tx),
		Description: cleanDescription(tx),
		Date:        tx.DtPosted.Time.Format("2006-01-02"),
		CreatedAt:   time.Now().UTC(),
	}
	expense.ID = expense.GenerateID()
	return expense, true
}

// categorize infers a spending category from the transaction type and
// description. OFX carries no category data, so this is best effort.
func categorize(tx ofxgo.Transaction) model.Category {
	switch fmt.Sprintf("%v", tx.TrnType) {
	case "FEE", "SRVCHG", "REPEATPMT":
		return model.CategoryBills
	}

	desc := strings.ToUpper(cleanDescription(tx))
	for _, rule := range categoryKeywords {
		if strings.Contains(desc, rule.keyword) {
			return rule.category
		}
	}
	return model.CategoryOther
}

// categoryKeywords is checked in order; earlier rules win.
var categoryKeywords = []struct {
	keyword  string
	category model.Category
}{
	{"RESTAURANT", model.CategoryFood},
	{"GROCERY", model.CategoryFood},
	{"CAFE", model.CategoryFood},
	{"COFFEE", model.CategoryFood},
	{"UBER", model.CategoryTransportation},
	{"LYFT", model.CategoryTransportation},
	{"TRANSIT", model.CategoryTransportation},
	{"PARKING", model.CategoryTransportation},
	{"FUEL", model.CategoryTransportation},
	{"CINEMA", model.CategoryEntertainment},
	{"THEATRE", model.CategoryEntertainment},
	{"SPOTIFY", model.CategoryEntertainment},
	{"NETFLIX", model.CategoryEntertainment},
	{"AMAZON", model.CategoryShopping},
	{"ELECTRIC", model.CategoryBills},
	{"UTILITY", model.CategoryBills},
	{"INSURANCE", model.CategoryBills},
}

// cleanDescription extracts a readable description from OFX name fields.
func cleanDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date stamps some banks prepend.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	// The length limit is in characters; never cut a rune mid-sequence.
	if runes := []rune(name); len(runes) > model.MaxDescriptionLength {
		name = string(runes[:model.MaxDescriptionLength])
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic to be
// useful on its own.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
