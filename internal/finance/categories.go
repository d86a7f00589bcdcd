package finance

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

var (
	hundred = decimal.NewFromInt(100)
	tenths  = decimal.NewFromInt(1000)
)

// BuildCategoryBreakdown totals the records of one type per raw category
// label inside scope, largest first. Equal totals keep the order in which
// their category first appeared in txs. Percentages carry one decimal and
// add up to exactly 100 whenever the filtered total is non-zero.
func BuildCategoryBreakdown(txs []models.Transaction, typ models.TransactionType, scope Scope, now time.Time) []models.CategoryShare {
	valid, _ := Partition(txs)

	var order []string
	totals := make(map[string]decimal.Decimal)
	filtered := decimal.Zero

	for _, tx := range valid {
		if tx.Type != typ || !scope.Contains(tx.Date, now) {
			continue
		}
		current, seen := totals[tx.Category]
		if !seen {
			order = append(order, tx.Category)
			current = decimal.Zero
		}
		totals[tx.Category] = current.Add(tx.Amount)
		filtered = filtered.Add(tx.Amount)
	}

	shares := make([]models.CategoryShare, 0, len(order))
	for _, key := range order {
		amount := totals[key]
		shares = append(shares, models.CategoryShare{
			Key:      key,
			Category: NormalizeCategoryLabel(key),
			Amount:   amount,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})
	apportion(shares, filtered)
	return shares
}

// apportion sets the percentages with the largest remainder method in
// tenths of a percent. Every share is the floor or the ceiling of its exact
// value; the leftover tenths go to the largest fractions, earlier shares
// first on ties.
func apportion(shares []models.CategoryShare, total decimal.Decimal) {
	if total.IsZero() {
		return
	}

	type remainder struct {
		idx  int
		frac decimal.Decimal
	}

	units := make([]int64, len(shares))
	rems := make([]remainder, len(shares))
	var assigned int64
	for i, s := range shares {
		exact := s.Amount.Mul(tenths).Div(total)
		floor := exact.Floor()
		units[i] = floor.IntPart()
		assigned += units[i]
		rems[i] = remainder{idx: i, frac: exact.Sub(floor)}
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac.GreaterThan(rems[j].frac)
	})
	for k := 0; int64(k) < tenths.IntPart()-assigned && k < len(rems); k++ {
		units[rems[k].idx]++
	}

	for i := range shares {
		shares[i].Percentage = decimal.New(units[i], -1).InexactFloat64()
	}
}

// NormalizeCategoryLabel turns "crop-sales" into "Crop Sales".
func NormalizeCategoryLabel(raw string) string {
	words := strings.Split(raw, "-")
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// percentOf returns part/total*100 rounded to one decimal, or 0 when total is 0.
func percentOf(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Mul(hundred).Div(total).Round(1).InexactFloat64()
}
