package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"

	"gamebank/internal/model"
	"gamebank/internal/money"
	"gamebank/internal/notify"
	"gamebank/internal/service"
)

const xpBarWidth = 20

type UI struct {
	svc service.WalletService
	in  *bufio.Reader

	mu  sync.Mutex // guards out; notifications arrive from timer goroutines
	out io.Writer
}

func NewUI(svc service.WalletService, in *bufio.Reader, out io.Writer) *UI {
	return &UI{svc: svc, in: in, out: out}
}

// Observer prints notifications as they arrive.
func (ui *UI) Observer() notify.Func {
	return func(ctx context.Context, n model.Notification) {
		ui.printf("\n%s %s\n", badge(n.Kind), n.Text)
	}
}

// SetService attaches the wallet after construction, for when the wallet
// itself needs the UI's observer.
func (ui *UI) SetService(svc service.WalletService) {
	ui.svc = svc
}

// Run shows the main menu until the user exits or input ends.
func (ui *UI) Run(ctx context.Context) {
	ui.printf("Welcome to GameBank!\n")
	for {
		ui.printf("\n=== Menu ===\n")
		ui.printf("1) Dashboard\n")
		ui.printf("2) Transactions\n")
		ui.printf("3) Transfer\n")
		ui.printf("4) Top up\n")
		ui.printf("5) Terminals\n")
		ui.printf("6) Create terminal\n")
		ui.printf("7) Simulate purchase\n")
		ui.printf("8) Achievements\n")
		ui.printf("0) Exit\n")
		ui.printf("> ")

		line, ok := ui.readLine()
		if !ok {
			return
		}
		switch strings.TrimSpace(line) {
		case "1":
			ui.dashboard(ctx)
		case "2":
			ui.transactions(ctx)
		case "3":
			ui.transfer(ctx)
		case "4":
			ui.topUp(ctx)
		case "5":
			ui.terminals(ctx)
		case "6":
			ui.createTerminal(ctx)
		case "7":
			ui.purchase(ctx)
		case "8":
			ui.achievements(ctx)
		case "0":
			return
		default:
			ui.printf("Unknown option.\n")
		}
	}
}

func (ui *UI) dashboard(ctx context.Context) {
	s := ui.svc.Snapshot(ctx)
	ui.printf("\nBalance: %s\n", money.Format(s.Balance))
	ui.printf("Level %d  [%s] %d/%d XP\n", s.Level, xpBar(s.XPProgress), s.XP, s.XPRequired)
	ui.printf("Terminals: %d  Transactions: %d\n", len(s.Terminals), len(s.Transactions))
	if s.Pending > 0 {
		ui.printf("Operations in progress: %d\n", s.Pending)
	}
}

func (ui *UI) transactions(ctx context.Context) {
	s := ui.svc.Snapshot(ctx)
	rows := make([][]string, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		sign := "-"
		if tx.Credit() {
			sign = "+"
		}
		rows = append(rows, []string{tx.OccurredOn, string(tx.Kind), tx.Counterparty, sign + money.Format(tx.Amount)})
	}
	ui.table([]string{"Date", "Kind", "Counterparty", "Amount"}, rows)
}

func (ui *UI) transfer(ctx context.Context) {
	amount := ui.prompt("Amount: ")
	card := ui.prompt("Recipient card: ")
	res, err := ui.svc.Transfer(ctx, model.TransferRequest{Amount: amount, RecipientCard: card})
	if err != nil {
		return
	}
	ui.printf("Balance is now %s\n", money.Format(res.Balance))
}

func (ui *UI) topUp(ctx context.Context) {
	amount := ui.prompt("Amount (min 100): ")
	card := ui.prompt("Card number: ")
	banks := model.Banks()
	for i, b := range banks {
		label, _ := b.Label()
		ui.printf("%d) %s\n", i+1, label)
	}
	choice := ui.prompt("Bank: ")

	var bank model.Bank
	for i, b := range banks {
		if choice == fmt.Sprint(i+1) || strings.EqualFold(choice, string(b)) {
			bank = b
		}
	}
	p, err := ui.svc.TopUp(ctx, model.TopUpRequest{Amount: amount, CardNumber: card, Bank: bank})
	if err != nil {
		return
	}
	ui.printf("Accepted, due at %s\n", p.DueAt.Format("15:04:05"))
}

func (ui *UI) terminals(ctx context.Context) {
	s := ui.svc.Snapshot(ctx)
	if len(s.Terminals) == 0 {
		ui.printf("No terminals yet.\n")
		return
	}
	rows := make([][]string, 0, len(s.Terminals))
	for i, t := range s.Terminals {
		rows = append(rows, []string{fmt.Sprint(i + 1), t.Name, money.Format(t.Price), money.Format(t.Revenue), t.CreatedOn, t.PaymentToken})
	}
	ui.table([]string{"#", "Name", "Price", "Revenue", "Created", "Payment link"}, rows)
}

func (ui *UI) createTerminal(ctx context.Context) {
	name := ui.prompt("Name: ")
	price := ui.prompt("Price (min 50): ")
	t, err := ui.svc.CreateTerminal(ctx, model.CreateTerminalRequest{Name: name, Price: price})
	if err != nil {
		return
	}
	ui.printf("Payment link: %s\n", t.PaymentToken)
}

func (ui *UI) purchase(ctx context.Context) {
	s := ui.svc.Snapshot(ctx)
	if len(s.Terminals) == 0 {
		ui.printf("No terminals yet.\n")
		return
	}
	ui.terminals(ctx)
	ref := ui.prompt("Terminal # or payment link: ")
	for i, t := range s.Terminals {
		if ref == fmt.Sprint(i+1) {
			ref = t.ID
		}
	}
	if _, err := ui.svc.Purchase(ctx, model.PurchaseRequest{TerminalRef: ref}); err != nil {
		return
	}
	ui.printf("Payment sent.\n")
}

func (ui *UI) achievements(ctx context.Context) {
	s := ui.svc.Snapshot(ctx)
	rows := make([][]string, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		mark := " "
		if a.Unlocked {
			mark = "x"
		}
		rows = append(rows, []string{mark, a.Title, a.Description})
	}
	ui.table([]string{"", "Achievement", "How"}, rows)
}

func (ui *UI) table(header []string, rows [][]string) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	table := tablewriter.NewWriter(ui.out)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

func (ui *UI) prompt(label string) string {
	ui.printf("%s", label)
	line, _ := ui.readLine()
	return strings.TrimSpace(line)
}

func (ui *UI) readLine() (string, bool) {
	s, err := ui.in.ReadString('\n')
	if err != nil && s == "" {
		return "", false
	}
	return strings.TrimRight(s, "\r\n"), true
}

func (ui *UI) printf(format string, args ...any) {
	ui.mu.Lock()
	defer ui.mu.Unlock()
	fmt.Fprintf(ui.out, format, args...)
}

func badge(kind model.NotificationKind) string {
	switch kind {
	case model.NotifySuccess:
		return "[ok]"
	case model.NotifyError:
		return "[error]"
	default:
		return "[..]"
	}
}

func xpBar(percent float64) string {
	filled := int(percent / 100 * xpBarWidth)
	if filled > xpBarWidth {
		filled = xpBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("#", filled) + strings.Repeat(".", xpBarWidth-filled)
}
