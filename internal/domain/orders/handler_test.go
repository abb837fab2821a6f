package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/opd/opd/internal/domain/prescription"
)

func doRequest(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func marshalOrder(t *testing.T, drafts []*prescription.DraftMedicinePlan) string {
	t.Helper()
	body, err := json.Marshal(orderRequest{DraftMedicinePlans: drafts})
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	return string(body)
}

func TestConfirmHandler_UnknownMedicine(t *testing.T) {
	f := newFixture(t)

	drafts, err := f.svc.CreateDrafts(context.Background(), []*prescription.DraftMedicinePlan{
		{MedicineName: "Unobtainium", Amount: 1, Dosage: "1 tablet", DosageMeals: "after meals", DosageTimes: 1},
	})
	if err != nil {
		t.Fatalf("CreateDrafts: %v", err)
	}

	rec := doRequest(t, NewHandler(f.svc).confirm, marshalOrder(t, drafts))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestConfirmHandler_UnknownDraft(t *testing.T) {
	f := newFixture(t)

	rec := doRequest(t, NewHandler(f.svc).confirm, marshalOrder(t, []*prescription.DraftMedicinePlan{
		{ID: uuid.New(), MedicineName: "Paracetamol", Amount: 1, Dosage: "1 tablet", DosageMeals: "after meals", DosageTimes: 1},
	}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestConfirmHandler_EmptyOrder(t *testing.T) {
	f := newFixture(t)

	rec := doRequest(t, NewHandler(f.svc).confirm, `{"draftMedicinePlans":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
}
