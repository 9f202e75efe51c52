package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/etc-team/bestellung/pkg/odoo"
)

type fakeOdoo struct {
	count   int
	rows    string
	err     error
	domains []odoo.Domain
	params  *odoo.SearchReadParams
}

func (f *fakeOdoo) SearchCount(_ context.Context, model string, domain odoo.Domain) (int, error) {
	f.domains = append(f.domains, domain)
	return f.count, f.err
}

func (f *fakeOdoo) SearchRead(_ context.Context, model string, params odoo.SearchReadParams, out any) error {
	f.params = &params
	return json.Unmarshal([]byte(f.rows), out)
}

func TestSellable(t *testing.T) {
	f := &fakeOdoo{
		count: 2,
		rows: `[
			{"id": 1, "name": "Arbeitsplatte", "list_price": 349.9, "default_code": "AP-01", "taxes_id": [1]},
			{"id": 2, "name": "Montage", "list_price": 0, "default_code": false, "taxes_id": []}
		]`,
	}
	products, err := NewService(f).Sellable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Product{
		{ID: 1, Name: "Arbeitsplatte", ListPrice: 349.9, DefaultCode: "AP-01", TaxIDs: odoo.IDs{1}},
		{ID: 2, Name: "Montage", TaxIDs: odoo.IDs{}},
	}
	if !reflect.DeepEqual(products, want) {
		t.Errorf("got %+v\nwant %+v", products, want)
	}

	domain, _ := json.Marshal(f.domains[0])
	if string(domain) != `[["sale_ok","=",true]]` {
		t.Errorf("count domain = %s", domain)
	}
	if f.params.Limit != 2 || f.params.Order != "name asc" || !reflect.DeepEqual(f.params.Fields, productFields) {
		t.Errorf("read params = %+v", f.params)
	}
}

func TestSellableEmpty(t *testing.T) {
	f := &fakeOdoo{count: 0}
	products, err := NewService(f).Sellable(context.Background())
	if err != nil || products == nil || len(products) != 0 {
		t.Errorf("got %v, %v", products, err)
	}
	if f.params != nil {
		t.Error("read issued for zero products")
	}
}

func TestListHandler(t *testing.T) {
	tests := []struct {
		name   string
		odoo   *fakeOdoo
		status int
		body   string
	}{
		{"products", &fakeOdoo{count: 1, rows: `[{"id": 5, "name": "Spüle", "list_price": 99, "taxes_id": [[1, "19%"]]}]`}, http.StatusOK,
			`[{"id":5,"name":"Spüle","list_price":99,"taxes_id":[1]}]` + "\n"},
		{"empty", &fakeOdoo{}, http.StatusOK, "[]\n"},
		{"odoo down", &fakeOdoo{err: odoo.ErrNotConfigured}, http.StatusInternalServerError,
			`{"error":"odoo: ODOO_BASE_URL and ODOO_API_KEY must be set"}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHandler(NewService(tt.odoo)).List(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
			if w.Code != tt.status || w.Body.String() != tt.body {
				t.Errorf("got %d %s", w.Code, w.Body)
			}
		})
	}
}

func TestSellableWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewService(&fakeOdoo{err: boom}).Sellable(context.Background()); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
}
