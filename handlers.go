package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/crediruta/cobrador/pkg/helpers"
	"github.com/crediruta/cobrador/pkg/models"
	"github.com/crediruta/cobrador/pkg/models/sqlite"
	"github.com/crediruta/cobrador/pkg/printer"
)

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	if app.runtimeEnv == "dev" {
		fmt.Fprintf(w, "It works! [dev]")
	} else {
		fmt.Fprintf(w, "It works!")
	}
}

func (app *application) authenticate(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	u, err := app.user.Get(username, password)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			app.notFound(w)
		} else {
			app.serverError(w, err)
		}
		return
	}

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["username"] = u.Username
	claims["name"] = u.Name
	claims["exp"] = time.Now().Add(time.Minute * 180).Unix()

	ts, err := token.SignedString(app.secret)
	if err != nil {
		app.serverError(w, err)
		return
	}

	user := models.UserResponse{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Type, Token: ts}
	js, err := json.Marshal(user)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(js)
}

func (app *application) status(w http.ResponseWriter, r *http.Request) {
	pending, err := app.collection.Count()
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"downloading":         app.downloading.Load(),
		"sync_state":          app.sync.State().String(),
		"pending_collections": pending,
	})
}

func (app *application) downloadRoute(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	routeID := r.PostForm.Get("route_id")
	if routeID == "" {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	app.downloading.Store(true)
	defer app.downloading.Store(false)

	loans, err := app.remote.DownloadRoute(routeID)
	if err != nil {
		var serr *models.ServerError
		if errors.As(err, &serr) {
			app.errorLog.Printf("route %s rejected by server: %s", routeID, serr.Message)
			app.errorJSON(w, http.StatusBadGateway, serr.Message)
		} else {
			app.errorLog.Printf("route %s download failed: %v", routeID, err)
			app.errorJSON(w, http.StatusBadGateway, "head-office server unreachable")
		}
		return
	}

	// Strictly additive: loans written before a mid-batch failure stay
	// written, and a repeated download upserts the same rows.
	for _, rl := range loans {
		if err := app.loan.SaveRouteLoan(rl); err != nil {
			app.serverError(w, err)
			return
		}
	}

	app.infoLog.Printf("Route %s downloaded: %d loans", routeID, len(loans))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"loans": len(loans)})
}

func (app *application) loans(w http.ResponseWriter, r *http.Request) {
	items, err := app.loan.All()
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (app *application) loanFees(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lid := vars["lid"]
	if lid == "" {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	fees, err := app.loan.ReconciledFees(lid)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
		} else {
			app.serverError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fees)
}

func (app *application) loanCollections(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lid := vars["lid"]
	if lid == "" {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	items, err := app.collection.ForLoan(lid)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (app *application) collections(w http.ResponseWriter, r *http.Request) {
	items, err := app.collection.All()
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (app *application) collectionSearch(w http.ResponseWriter, r *http.Request) {
	startDate, err := time.Parse("2006-01-02", r.URL.Query().Get("startdate"))
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	endDate, err := time.Parse("2006-01-02", r.URL.Query().Get("enddate"))
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	items, err := helpers.CollectionsBetween(app.collection.DB, startDate, endDate, r.URL.Query().Get("loan"))
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

func (app *application) newCollection(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	requiredParams := []string{"loan_id", "fee_seq", "amount"}
	for _, param := range requiredParams {
		if v := r.PostForm.Get(param); v == "" {
			fmt.Println(param)
			app.clientError(w, http.StatusBadRequest)
			return
		}
	}

	amount, err := strconv.ParseFloat(r.PostForm.Get("amount"), 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	feeSeq, err := strconv.Atoi(r.PostForm.Get("fee_seq"))
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	l, err := app.loan.Get(r.PostForm.Get("loan_id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
		} else {
			app.serverError(w, err)
		}
		return
	}

	// The upper bound (amount <= due - already paid) is the caller's
	// responsibility; it is not re-checked here.
	t := time.Now()
	c := models.NewCollection{
		LoanID:           l.ID,
		FeeSeq:           feeSeq,
		Amount:           math.Round(amount*100) / 100,
		Day:              t.Day(),
		Month:            int(t.Month()),
		Year:             t.Year(),
		Hour:             t.Hour(),
		Minute:           t.Minute(),
		Second:           t.Second(),
		TimeZone:         t.Location().String(),
		Installment:      feeSeq,
		InstallmentCount: l.Installments,
		CompanyName:      app.company,
		CompanyPhone:     app.companyPhone,
		ClientName:       l.CustomerName,
	}

	id, err := app.collection.Record(c)
	if err != nil {
		app.serverError(w, err)
		return
	}

	// The collection is already durable; a receipt that will not print
	// degrades to printed=false and can be reprinted later.
	printed := printer.PrintWithRetry(app.printer, app.printerName, paymentReceipt(c), printer.PrintAttempts, printer.RetryBackoff)

	app.receiptLog.Printf("RECEIPT %d loan %s fee %d amount %s printed %t", id, c.LoanID, c.FeeSeq, humanize.CommafWithDigits(c.Amount, 2), printed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "printed": printed})
}

func (app *application) reprintCollection(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(r.PostForm.Get("id"))
	if err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	c, err := app.collection.Get(id)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			app.notFound(w)
		} else {
			app.serverError(w, err)
		}
		return
	}

	printed := printer.PrintWithRetry(app.printer, app.printerName, paymentReceipt(c), printer.PrintAttempts, printer.RetryBackoff)

	app.receiptLog.Printf("REPRINT %d loan %s fee %d printed %t", c.ID, c.LoanID, c.FeeSeq, printed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"printed": printed})
}

func (app *application) syncCollections(w http.ResponseWriter, r *http.Request) {
	n, err := app.runSync()
	if err != nil {
		switch {
		case errors.Is(err, sqlite.ErrNothingToUpload):
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"uploaded": 0, "message": "nothing to upload"})
		case errors.Is(err, sqlite.ErrSyncBusy):
			app.clientError(w, http.StatusConflict)
		default:
			var serr *models.ServerError
			if errors.As(err, &serr) {
				app.errorLog.Printf("sync rejected by server: %s", serr.Message)
				app.errorJSON(w, http.StatusBadGateway, serr.Message)
			} else {
				app.errorLog.Printf("sync failed: %v", err)
				app.errorJSON(w, http.StatusBadGateway, "head-office server unreachable")
			}
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"uploaded": n})
}

// runSync drives the sync controller and, on success, archives the
// uploaded batch. The batch stays local and untouched on any failure.
func (app *application) runSync() (int, error) {
	batch, err := app.sync.Sync()
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, rec := range batch {
		total += rec.Amount
	}
	app.receiptLog.Printf("SYNC %d collections uploaded, total %s", len(batch), humanize.CommafWithDigits(total, 2))

	if js, err := json.Marshal(batch); err == nil {
		app.archiveSyncBatch(js)
	}

	return len(batch), nil
}

func (app *application) dayClose(w http.ResponseWriter, r *http.Request) {
	items, err := app.collection.All()
	if err != nil {
		app.serverError(w, err)
		return
	}

	if len(items) == 0 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "no collections to close"})
		return
	}

	// One line per client, in order of first appearance.
	order := []string{}
	grouped := map[string]*printer.ReceiptItem{}
	total := 0.0
	for _, c := range items {
		g, ok := grouped[c.ClientName]
		if !ok {
			g = &printer.ReceiptItem{Description: c.ClientName}
			grouped[c.ClientName] = g
			order = append(order, c.ClientName)
		}
		g.Quantity++
		g.Amount = math.Round((g.Amount+c.Amount)*100) / 100
		total = math.Round((total+c.Amount)*100) / 100
	}

	lines := make([]printer.ReceiptItem, len(order))
	for i, name := range order {
		lines[i] = *grouped[name]
	}

	t := time.Now()
	doc := printer.DayClose{
		CompanyName: app.company,
		Day:         t.Day(),
		Month:       int(t.Month()),
		Year:        t.Year(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Items:       lines,
		Total:       total,
	}

	printed := printer.PrintWithRetry(app.printer, app.printerName, doc, printer.PrintAttempts, printer.RetryBackoff)

	app.receiptLog.Printf("DAY CLOSE %d receipts total %s printed %t", len(items), humanize.CommafWithDigits(total, 2), printed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"printed": printed, "receipts": len(items), "total": total})
}

func paymentReceipt(c models.NewCollection) printer.PaymentReceipt {
	return printer.PaymentReceipt{
		CompanyName:      c.CompanyName,
		CompanyPhone:     c.CompanyPhone,
		ClientName:       c.ClientName,
		LoanID:           c.LoanID,
		Installment:      c.Installment,
		InstallmentCount: c.InstallmentCount,
		Amount:           c.Amount,
		Day:              c.Day,
		Month:            c.Month,
		Year:             c.Year,
		Hour:             c.Hour,
		Minute:           c.Minute,
	}
}
