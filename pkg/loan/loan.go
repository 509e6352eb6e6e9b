// Package loan holds the pure schedule arithmetic: the flat installment
// due amount and the reconciliation merge of downloaded fees with
// pending local collections.
package loan

import (
	"math"

	"github.com/crediruta/cobrador/pkg/models"
)

// InstallmentDue returns the flat amount expected per installment,
// regardless of sequence. It is always recomputed from the loan terms,
// never stored.
func InstallmentDue(principal, rate float64, installments int) float64 {
	if installments <= 0 {
		return 0
	}
	due := (rate/100)*principal + principal/float64(installments)
	return math.Round(due*100) / 100
}

// Reconcile merges a loan's scheduled fees with its pending collections.
// Collections are grouped by fee sequence number and summed; each fee's
// paid amount becomes original + matched group sum. A collection whose
// sequence number matches no fee contributes to nothing.
func Reconcile(l models.Loan, fees []models.ScheduledFee, collections []models.NewCollection) []models.FeeView {
	pending := make(map[int]float64, len(collections))
	for _, c := range collections {
		pending[c.FeeSeq] = math.Round((pending[c.FeeSeq]+c.Amount)*100) / 100
	}

	due := InstallmentDue(l.Principal, l.InterestRate, l.Installments)
	views := make([]models.FeeView, len(fees))
	for i, f := range fees {
		views[i] = models.FeeView{
			LoanID:        f.LoanID,
			Seq:           f.Seq,
			DueDate:       f.DueDate,
			DueAmount:     due,
			PaidAmount:    math.Round((f.PaidAmount+pending[f.Seq])*100) / 100,
			PendingAmount: pending[f.Seq],
		}
	}

	return views
}
