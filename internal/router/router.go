package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/account"
	"github.com/rickgao/ctsp-server/internal/metrics"
	"github.com/rickgao/ctsp-server/internal/model"
	"github.com/rickgao/ctsp-server/internal/protocol"
	"github.com/rickgao/ctsp-server/internal/session"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	leaderboardSize = 10
)

// Dispatcher routes parsed requests to command handlers.
type Dispatcher struct {
	accounts *account.Store
	sessions session.Registry
	market   Market
	journal  TradeLog
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher wires the dispatcher to its collaborators. journal may be
// nil when no trade log is wanted.
func NewDispatcher(
	accounts *account.Store,
	sessions session.Registry,
	market Market,
	journal TradeLog,
	logger *slog.Logger,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		accounts: accounts,
		sessions: sessions,
		market:   market,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch handles one request and always produces a response; every failure
// degrades to a 400/401 body, never a dropped connection.
func (d *Dispatcher) Dispatch(req *protocol.Request) *protocol.Response {
	resp := d.route(req)

	// Echo the caller's token unless the handler issued a fresh one.
	if resp.Token == "" {
		resp.Token = req.PlayerID
	}

	metrics.RequestsTotal.WithLabelValues(
		commandLabel(req.Command),
		strconv.Itoa(int(resp.Status)),
	).Inc()
	d.logger.Debug("request dispatched", "command", req.Command, "status", int(resp.Status))
	return resp
}

func (d *Dispatcher) route(req *protocol.Request) *protocol.Response {
	switch req.Command {
	case "ENTER":
		return d.handleEnter(req)
	case "EXIT":
		return d.handleExit(req)
	case "SCAN":
		return d.withSession(req, d.handleScan)
	case "BUY":
		return d.withSession(req, func(username string, r *protocol.Request) *protocol.Response {
			return d.executeTrade(username, r, model.SideBuy)
		})
	case "SELL":
		return d.withSession(req, func(username string, r *protocol.Request) *protocol.Response {
			return d.executeTrade(username, r, model.SideSell)
		})
	case "CHECK":
		return d.withSession(req, d.handleCheck)
	case "RANK":
		return d.withSession(req, d.handleRank)
	default:
		return errResponse(protocol.StatusBadRequest, msgInvalidCommand)
	}
}

// withSession resolves the caller's token before running the handler.
func (d *Dispatcher) withSession(
	req *protocol.Request,
	handler func(username string, req *protocol.Request) *protocol.Response,
) *protocol.Response {
	username, ok := d.sessions.Resolve(session.TokenFromWire(req.PlayerID))
	if !ok {
		return errResponse(protocol.StatusBadRequest, msgNotLoggedIn)
	}
	return handler(username, req)
}

func (d *Dispatcher) handleEnter(req *protocol.Request) *protocol.Response {
	var p enterPayload
	if req.Body != nil {
		// A body of the wrong shape just leaves the fields empty.
		_ = json.Unmarshal(req.Body, &p)
	}
	if p.Username == "" || p.Password == "" {
		return errResponse(protocol.StatusBadRequest, msgCredentialsRequired)
	}

	outcome, err := d.accounts.AuthenticateOrCreate(p.Username, p.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			return errResponse(protocol.StatusUnauthorized, msgInvalidCredentials)
		}
		d.logger.Error("authentication failed", "username", p.Username, "err", err)
		return errResponse(protocol.StatusBadRequest, msgInternalError)
	}

	snap, err := d.accounts.Snapshot(p.Username)
	if err != nil {
		d.logger.Error("snapshot after login failed", "username", p.Username, "err", err)
		return errResponse(protocol.StatusBadRequest, msgInternalError)
	}

	token := d.sessions.Create(p.Username)

	message := fmt.Sprintf("Welcome back, %s!", p.Username)
	if outcome == account.Created {
		message = fmt.Sprintf("Welcome, %s! Your account has been created.", p.Username)
	}

	return &protocol.Response{
		Status: protocol.StatusOK,
		Token:  token.String(),
		Body: enterResult{
			Message:  message,
			Balance:  snap.Balance.InexactFloat64(),
			PlayerID: token.String(),
		},
	}
}

func (d *Dispatcher) handleExit(req *protocol.Request) *protocol.Response {
	token := session.TokenFromWire(req.PlayerID)
	if _, ok := d.sessions.Resolve(token); !ok {
		return errResponse(protocol.StatusBadRequest, msgExitNotLoggedIn)
	}
	d.sessions.Destroy(token)
	return okResponse(messageBody{Message: "Logout successful"})
}

func (d *Dispatcher) handleScan(username string, _ *protocol.Request) *protocol.Response {
	return okResponse(scanResult{MarketData: d.market.Snapshot()})
}

func (d *Dispatcher) executeTrade(username string, req *protocol.Request, side model.TradeSide) *protocol.Response {
	var p tradePayload
	if req.Body != nil {
		dec := json.NewDecoder(bytes.NewReader(req.Body))
		dec.UseNumber()
		_ = dec.Decode(&p)
	}
	if p.Coin == "" || p.Amount == nil {
		return errResponse(protocol.StatusBadRequest, msgTradeFieldsRequired)
	}

	amount, err := parseAmount(p.Amount)
	if err != nil || !amount.IsPositive() {
		return errResponse(protocol.StatusBadRequest, msgInvalidAmount)
	}

	// Price is read once and used for both the ledger update and the
	// receipt. The simulator may move on before the trade applies; the
	// receipt stays consistent with what was charged.
	price, ok := d.market.Price(p.Coin)
	if !ok {
		return errResponse(protocol.StatusBadRequest, msgInvalidCoin)
	}

	var newBalance decimal.Decimal
	if side == model.SideBuy {
		newBalance, err = d.accounts.ApplyBuy(username, p.Coin, amount, price)
	} else {
		newBalance, err = d.accounts.ApplySell(username, p.Coin, amount, price)
	}
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInsufficientFunds):
			return errResponse(protocol.StatusBadRequest, msgInsufficientFunds)
		case errors.Is(err, account.ErrInsufficientHoldings):
			return errResponse(protocol.StatusBadRequest, msgInsufficientCoins)
		default:
			d.logger.Error("trade failed", "username", username, "side", side, "err", err)
			return errResponse(protocol.StatusBadRequest, msgInternalError)
		}
	}

	rec := model.TradeRecord{
		Type:      side,
		Coin:      p.Coin,
		Amount:    amount.InexactFloat64(),
		Price:     price.InexactFloat64(),
		Timestamp: d.now().Format(timestampLayout),
	}
	if err := d.accounts.RecordTrade(username, rec); err != nil {
		d.logger.Error("record trade failed", "username", username, "err", err)
	}
	if d.journal != nil {
		d.journal.Record(username, rec)
	}

	message := "Purchase successful"
	if side == model.SideSell {
		message = "Sale successful"
	}

	return okResponse(tradeResult{
		Message: message,
		Transaction: transaction{
			Coin:   p.Coin,
			Amount: amount.InexactFloat64(),
			Price:  price.InexactFloat64(),
			Total:  amount.Mul(price).InexactFloat64(),
		},
		NewBalance: newBalance.InexactFloat64(),
	})
}

func (d *Dispatcher) handleCheck(username string, req *protocol.Request) *protocol.Response {
	var p checkPayload
	if req.Body != nil {
		_ = json.Unmarshal(req.Body, &p)
	}
	if p.Type == "" {
		return errResponse(protocol.StatusBadRequest, msgCheckTypeRequired)
	}

	switch p.Type {
	case "portfolio":
		snap, err := d.accounts.Snapshot(username)
		if err != nil {
			d.logger.Error("portfolio snapshot failed", "username", username, "err", err)
			return errResponse(protocol.StatusBadRequest, msgInternalError)
		}
		total, err := d.accounts.TotalValue(username, d.market)
		if err != nil {
			d.logger.Error("valuation failed", "username", username, "err", err)
			return errResponse(protocol.StatusBadRequest, msgInternalError)
		}
		portfolio := make(map[string]float64, len(snap.Holdings))
		for coin, qty := range snap.Holdings {
			portfolio[coin] = qty.InexactFloat64()
		}
		return okResponse(portfolioResult{
			Portfolio:  portfolio,
			Balance:    snap.Balance.InexactFloat64(),
			TotalValue: total.InexactFloat64(),
		})
	case "history":
		records, err := d.accounts.History(username)
		if err != nil {
			d.logger.Error("history read failed", "username", username, "err", err)
			return errResponse(protocol.StatusBadRequest, msgInternalError)
		}
		if records == nil {
			records = []model.TradeRecord{}
		}
		return okResponse(historyResult{History: records})
	default:
		return errResponse(protocol.StatusBadRequest, msgInvalidCheckType)
	}
}

func (d *Dispatcher) handleRank(username string, _ *protocol.Request) *protocol.Response {
	return okResponse(rankResult{
		Leaderboard: d.accounts.Leaderboard(d.market, leaderboardSize),
	})
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	case float64:
		return decimal.NewFromFloat(n), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("amount must be a number, got %T", v)
	}
}

func okResponse(body any) *protocol.Response {
	return &protocol.Response{Status: protocol.StatusOK, Body: body}
}

func errResponse(status protocol.Status, msg string) *protocol.Response {
	return &protocol.Response{Status: status, Body: errorBody{Error: msg}}
}

// commandLabel bounds metric label cardinality to the known command set.
func commandLabel(command string) string {
	switch command {
	case "ENTER", "EXIT", "SCAN", "BUY", "SELL", "CHECK", "RANK":
		return command
	default:
		return "unknown"
	}
}
