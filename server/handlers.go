package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradeplan/ledger"
	"github.com/rustyeddy/tradeplan/market"
	"github.com/rustyeddy/tradeplan/pkg/validate"
	"github.com/rustyeddy/tradeplan/quote"
	"github.com/rustyeddy/tradeplan/risk"
	"github.com/rustyeddy/tradeplan/trade"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"service": "tradeplan",
		"ledger":  s.cfg.Ledger.Type,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !s.bind(w, r, &req) {
		return
	}
	snap, err := req.snapshot(s.cfg)
	if err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.FromError(err))
		return
	}

	ev := trade.Evaluate(snap)
	if !ev.Finite() {
		s.writeOverflow(w)
		return
	}
	s.writeJSON(w, http.StatusOK, newEvaluateResponse(snap, ev))
}

func (s *Server) handleSize(w http.ResponseWriter, r *http.Request) {
	var req sizeRequest
	if !s.bind(w, r, &req) {
		return
	}
	in, err := req.inputs(s.cfg)
	if err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.FromError(err))
		return
	}

	res, err := risk.Size(in)
	if errors.Is(err, risk.ErrDivisionUndefined) {
		s.writeErrors(w, http.StatusUnprocessableEntity, validate.Errors{{
			Code:    "ERR_DIVISION_UNDEFINED",
			Field:   "sl_price",
			Message: err.Error(),
		}})
		return
	}

	pair, _ := market.ParseInstrument(req.Pair)
	s.writeJSON(w, http.StatusOK, sizeResponse{
		Pair:      pair,
		Inputs:    in,
		Result:    res,
		Lots:      res.Lots(pair.Meta().LotSize),
		RiskLevel: risk.RiskLevel(in.RiskPct),
		Decision:  risk.Check(s.cfg.RiskPolicy(), in, req.TakeProfit),
	})
}

func (s *Server) handleLedgerList(w http.ResponseWriter, r *http.Request) {
	pairs, ok := s.pairsParam(w, r)
	if !ok {
		return
	}
	entries, notice, ok := s.load(w, r)
	if !ok {
		return
	}

	view := ledger.Query(entries, pairs)
	resp := ledgerResponse{Entries: make([]ledgerRow, len(view)), Notice: notice}
	for i, e := range view {
		resp.Entries[i] = ledgerRow{Entry: e, Outcome: e.Outcome()}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerSave(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !s.bind(w, r, &req) {
		return
	}
	snap, err := req.snapshot(s.cfg)
	if err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.FromError(err))
		return
	}

	ev := trade.Evaluate(snap)
	if !ev.Finite() {
		s.writeOverflow(w)
		return
	}
	entry := ledger.NewEntry(s.now(), snap, ev)

	s.mu.Lock()
	err = s.store.Append(r.Context(), entry)
	s.mu.Unlock()
	if err != nil {
		s.log.Error().Err(err).Msg("ledger append failed")
		s.writeError(w, http.StatusInternalServerError, "could not save trade")
		return
	}

	s.log.Info().Str("pair", string(snap.Pair)).Str("direction", string(snap.Direction)).Msg("trade saved")
	s.writeJSON(w, http.StatusCreated, ledgerRow{Entry: entry, Outcome: entry.Outcome()})
}

func (s *Server) handleLedgerSummary(w http.ResponseWriter, r *http.Request) {
	pairs, ok := s.pairsParam(w, r)
	if !ok {
		return
	}
	entries, notice, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, summaryResponse{
		Summary: ledger.Summarize(ledger.Query(entries, pairs)),
		Notice:  notice,
	})
}

func (s *Server) handleLedgerExport(w http.ResponseWriter, r *http.Request) {
	format := ledger.FormatCSV
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := ledger.ParseFormat(v)
		if err != nil {
			s.writeErrors(w, http.StatusBadRequest, validate.Errors{{Code: "ERR_FORMAT", Field: "format", Message: err.Error()}})
			return
		}
		format = f
	}
	pairs, ok := s.pairsParam(w, r)
	if !ok {
		return
	}
	entries, _, ok := s.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := ledger.Export(&buf, format, ledger.Query(entries, pairs), ledger.ExportOptions{Pretty: true}); err != nil {
		s.log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trade_log."+string(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	inst, err := market.ParseInstrument(chi.URLParam(r, "pair"))
	if err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.Errors{{Code: "ERR_INSTRUMENT", Field: "pair", Message: err.Error()}})
		return
	}

	var manual float64
	if v := r.URL.Query().Get("manual"); v != "" {
		manual, err = strconv.ParseFloat(v, 64)
		if err == nil && !market.IsFinite(manual) {
			err = errors.New("manual must be a finite number")
		}
		if err != nil {
			s.writeErrors(w, http.StatusBadRequest, validate.Errors{{Code: "ERR_NUMBER", Field: "manual", Message: err.Error()}})
			return
		}
	}

	q, err := quote.Resolve(r.Context(), s.quotes, inst, manual)
	resp := map[string]any{
		"quote":   q,
		"display": market.FormatPrice(inst, q.Price),
	}
	if err != nil {
		s.log.Warn().Err(err).Str("pair", string(inst)).Msg("live price unavailable, using manual price")
		resp["warning"] = err.Error()
	} else if manual > 0 {
		resp["difference"] = q.Price - manual
		resp["difference_pips"] = market.Pips(inst, q.Price-manual)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// load reads the whole ledger. An unreadable store is reported as a
// notice with no entries, not as a failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) ([]ledger.Entry, string, bool) {
	entries, err := s.store.Load(r.Context())
	switch {
	case err == nil:
		return entries, "", true
	case errors.Is(err, ledger.ErrStorageUnavailable):
		s.log.Warn().Err(err).Msg("ledger unreadable, showing empty ledger")
		return nil, err.Error(), true
	default:
		s.log.Error().Err(err).Msg("ledger load failed")
		s.writeError(w, http.StatusInternalServerError, "could not load ledger")
		return nil, "", false
	}
}

// pairsParam reads repeated ?pair= values. None means every instrument.
func (s *Server) pairsParam(w http.ResponseWriter, r *http.Request) ([]market.Instrument, bool) {
	raw := r.URL.Query()["pair"]
	if len(raw) == 0 {
		return market.AllInstruments(), true
	}
	pairs := make([]market.Instrument, 0, len(raw))
	for _, v := range raw {
		inst, err := market.ParseInstrument(v)
		if err != nil {
			s.writeErrors(w, http.StatusBadRequest, validate.Errors{{Code: "ERR_INSTRUMENT", Field: "pair", Message: err.Error()}})
			return nil, false
		}
		pairs = append(pairs, inst)
	}
	return pairs, true
}

// bind decodes the JSON body into req, fills defaults and validates it.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.Errors{{Code: "ERR_BIND", Message: err.Error()}})
		return false
	}
	if err := validate.Struct(r.Context(), req); err != nil {
		s.writeErrors(w, http.StatusBadRequest, validate.FromError(err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, errs validate.Errors) {
	s.writeJSON(w, status, errorResponse{Errors: errs})
}

// writeOverflow reports levels that overflowed to an infinity, which JSON
// cannot carry.
func (s *Server) writeOverflow(w http.ResponseWriter) {
	s.writeErrors(w, http.StatusUnprocessableEntity, validate.Errors{{
		Code:    "ERR_OVERFLOW",
		Field:   "atr",
		Message: "stop-loss or take-profit overflows; inputs are too large",
	}})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeErrors(w, status, validate.Errors{{Code: "ERR_INTERNAL", Message: message}})
}
