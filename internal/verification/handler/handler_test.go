package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pharmatrace/internal/domain"
	"pharmatrace/internal/verification"
	"pharmatrace/internal/verification/handler/mocks"
)

//go:generate mockgen -source=handler.go -destination=mocks/verification-mocks.go -package=mocks Service
type ScanHandlerSuite struct {
	suite.Suite
}

func TestScanHandlerSuite(t *testing.T) {
	suite.Run(t, new(ScanHandlerSuite))
}

func newTestHandler(t *testing.T) (*chi.Mux, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, logger)
	r := chi.NewRouter()
	handler.Register(r)
	return r, mockService
}

func (s *ScanHandlerSuite) TestHandleScanOK() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().Verify(gomock.Any(), "ABCD-1234-XYZ").Return(verification.Result{
		Found:   true,
		Status:  domain.PackStatusProduced,
		Message: "OK - Status: produced, Duplicate: false, Expired: false",
	}, nil)

	body, err := json.Marshal(scanRequest{Token: "ABCD-1234-XYZ"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp verification.Result
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Found)
	assert.False(s.T(), resp.Duplicate)
}

func (s *ScanHandlerSuite) TestHandleScanCounterfeit() {
	router, mockService := newTestHandler(s.T())
	mockService.EXPECT().Verify(gomock.Any(), "ZZZZ-0000").Return(verification.Result{
		Found:   false,
		Message: "Not found - possible counterfeit.",
	}, nil)

	body, err := json.Marshal(scanRequest{Token: "ZZZZ-0000"})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp verification.Result
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(s.T(), resp.Found)
	assert.Equal(s.T(), "Not found - possible counterfeit.", resp.Message)
}

func (s *ScanHandlerSuite) TestHandleScanBadBody() {
	router, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
