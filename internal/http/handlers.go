package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"tracker/internal/core"
	"tracker/internal/view"
)

// tableRow is one rendered line of the expense table.
type tableRow struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      string
	Editing     bool
}

type editRow struct {
	ID          string
	Description string
	Amount      string
	Category    string
	Date        string
}

type tableData struct {
	Filter     string
	Filters    []string
	Categories []core.Category
	Rows       []tableRow
	Edit       *editRow
	Error      string
}

type totalsData struct {
	Rows []struct {
		Name   string
		Amount string
	}
	Overall string
}

type formData struct {
	Categories []core.Category
	Selected   core.Category
	Today      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Now    string
		Form   formData
		Table  tableData
		Totals totalsData
	}{
		Now:    time.Now().Format("Mon Jan 2 2006 15:04:05"),
		Form:   s.formData(),
		Table:  s.tableData(""),
		Totals: s.totalsData(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	form := expenseForm{
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Date:        sanitizeInput(r.Form.Get("date")),
	}
	draft, err := form.toDraft()
	if err != nil {
		s.writeValidationError(w, err)
		return
	}

	rec, err := s.ledger.Add(r.Context(), draft)
	if err != nil {
		s.writeValidationError(w, err)
		return
	}

	// Show the new entry right away: the filter follows the added category,
	// which also keeps the form on that category for quick repeat entries.
	filter, _ := view.ParseFilter(rec.Category.String())
	s.view.SetFilter(filter)

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}, "filter:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded: ` +
		template.HTMLEscapeString(rec.Description) +
		` — ` + core.FormatDollars(rec.Amount.Cents) +
		` (` + template.HTMLEscapeString(rec.Category.String()) + `)</div>`))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	category, err := core.ParseCategory(sanitizeInput(r.Form.Get("category")))
	if err != nil {
		s.renderTable(w, r, http.StatusUnprocessableEntity, "Invalid category")
		return
	}
	date := core.Today()
	if v := sanitizeInput(r.Form.Get("date")); v != "" {
		if parsed, err := core.ParseDate(v); err == nil {
			date = parsed
		}
	}

	draft := view.Draft{
		ID:          id,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Category:    category,
		Date:        date,
	}

	if _, err := s.view.CommitEdit(r.Context(), s.ledger, draft); err != nil {
		status := http.StatusUnprocessableEntity
		if err == core.ErrNotFound {
			status = http.StatusNotFound
		}
		s.renderTable(w, r, status, validationMessage(err))
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	s.renderTable(w, r, http.StatusOK, "")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing expense id</div>`))
		return
	}

	// Deleting a missing id is a no-op, not an error.
	s.ledger.Remove(r.Context(), id)

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	s.renderTable(w, r, http.StatusOK, "")
}

func (s *Server) handleSetFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	filter, err := view.ParseFilter(sanitizeInput(r.Form.Get("category")))
	if err != nil {
		s.renderTable(w, r, http.StatusUnprocessableEntity, "Unknown category filter")
		return
	}
	s.view.SetFilter(filter)

	w.Header().Set("HX-Trigger", `{"filter:changed": {}}`)
	s.renderTable(w, r, http.StatusOK, "")
}

func (s *Server) handleExpenseTable(w http.ResponseWriter, r *http.Request) {
	s.renderTable(w, r, http.StatusOK, "")
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "totals", s.totalsData()); err != nil {
		slog.ErrorContext(r.Context(), "Totals template execution failed", "error", err)
		_, _ = w.Write([]byte(`<div class="totals placeholder">Error rendering totals</div>`))
	}
}

func (s *Server) handleFormCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "form_category", s.formData()); err != nil {
		slog.ErrorContext(r.Context(), "Form category template execution failed", "error", err)
	}
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id := sanitizeInput(r.URL.Query().Get("id"))
	rec, ok := s.ledger.Get(id)
	if !ok {
		s.renderTable(w, r, http.StatusNotFound, "Expense no longer exists")
		return
	}
	s.view.BeginEdit(rec)
	s.renderTable(w, r, http.StatusOK, "")
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.view.CancelEdit()
	s.renderTable(w, r, http.StatusOK, "")
}

// handleClock renders the current-time partial polled by the page footer.
// It shares no state with the ledger.
func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<span id="clock">` + time.Now().Format("Mon Jan 2 2006 15:04:05") + `</span>`))
}

func (s *Server) renderTable(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := s.templates.ExecuteTemplate(w, "expense_table", s.tableData(errMsg)); err != nil {
		slog.ErrorContext(r.Context(), "Table template execution failed", "error", err)
		_, _ = w.Write([]byte(`<div class="table-wrap placeholder">Error rendering expenses</div>`))
	}
}

func (s *Server) tableData(errMsg string) tableData {
	records := s.view.Filtered(s.ledger.List())
	editingID, editing := s.view.EditingID()

	data := tableData{
		Filter:     s.view.Filter().String(),
		Filters:    filterLabels(),
		Categories: core.Categories(),
		Error:      errMsg,
	}
	if draft := s.view.Editing(); editing && draft != nil {
		data.Edit = &editRow{
			ID:          draft.ID,
			Description: draft.Description,
			Amount:      draft.Amount,
			Category:    draft.Category.String(),
			Date:        draft.Date.String(),
		}
	}
	for _, e := range records {
		data.Rows = append(data.Rows, tableRow{
			ID:          e.ID,
			Date:        e.Date.String(),
			Description: e.Description,
			Category:    e.Category.String(),
			Amount:      core.FormatDollars(e.Amount.Cents),
			Editing:     editing && e.ID == editingID,
		})
	}
	return data
}

func (s *Server) totalsData() totalsData {
	summary := s.ledger.Summarize()
	data := totalsData{Overall: core.FormatDollars(summary.Overall.Cents)}
	for _, ct := range summary.ByCategory {
		data.Rows = append(data.Rows, struct {
			Name   string
			Amount string
		}{Name: ct.Category.String(), Amount: core.FormatDollars(ct.Amount.Cents)})
	}
	return data
}

func (s *Server) formData() formData {
	return formData{
		Categories: core.Categories(),
		Selected:   s.view.FormCategory(),
		Today:      core.Today().String(),
	}
}

func (s *Server) writeValidationError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(validationMessage(err)) + `</div>`))
}

func validationMessage(err error) string {
	switch err {
	case core.ErrEmptyDescription:
		return "Description cannot be empty"
	case core.ErrInvalidAmount:
		return "Amount must be a positive number"
	case core.ErrInvalidCategory:
		return "Unknown category"
	case core.ErrNotFound:
		return "Expense no longer exists"
	default:
		return "Invalid data: " + err.Error()
	}
}

func filterLabels() []string {
	labels := []string{view.FilterAll}
	for _, c := range core.Categories() {
		labels = append(labels, c.String())
	}
	return labels
}
