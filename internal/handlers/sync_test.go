package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-expense-tracker/internal/models"
	"github.com/sbilibin2017/gw-expense-tracker/internal/services"
)

func TestBulkCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	tx := sampleTransaction(userID)
	body := `{"transactions":[{"description":"Coffee","amount":4.5,"category":"Food","type":"expense"},{"amount":-1}]}`

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockBulkCreator)
		expectedCode int
		check        func(t *testing.T, resp map[string]any)
	}{
		{
			name: "all inserted",
			body: body,
			mockSetup: func(m *MockBulkCreator) {
				m.EXPECT().
					BulkCreate(gomock.Any(), userID, gomock.Len(2)).
					Return(models.BulkCreateReport{Inserted: []models.TransactionDB{tx, tx}}, nil)
			},
			expectedCode: http.StatusCreated,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, true, resp["success"])
				assert.Equal(t, float64(2), resp["count"])
				assert.NotContains(t, resp, "errors")
				assert.NotContains(t, resp, "message")
			},
		},
		{
			name: "partial success",
			body: body,
			mockSetup: func(m *MockBulkCreator) {
				m.EXPECT().
					BulkCreate(gomock.Any(), userID, gomock.Any()).
					Return(models.BulkCreateReport{
						Inserted: []models.TransactionDB{tx},
						Failures: []models.BulkFailure{{Index: 1, Error: "amount must be at least 0.01"}},
					}, nil)
			},
			expectedCode: http.StatusMultiStatus,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, true, resp["success"])
				assert.Equal(t, "Partial success", resp["message"])
				assert.Equal(t, float64(1), resp["count"])
				assert.Equal(t, []any{map[string]any{"index": float64(1), "error": "amount must be at least 0.01"}}, resp["errors"])
			},
		},
		{
			name: "every element failed",
			body: body,
			mockSetup: func(m *MockBulkCreator) {
				m.EXPECT().
					BulkCreate(gomock.Any(), userID, gomock.Any()).
					Return(models.BulkCreateReport{Failures: []models.BulkFailure{{Index: 0, Error: "x"}, {Index: 1, Error: "y"}}}, nil)
			},
			expectedCode: http.StatusMultiStatus,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, float64(0), resp["count"])
				assert.Equal(t, []any{}, resp["data"])
				assert.Len(t, resp["errors"], 2)
			},
		},
		{
			name:         "empty batch",
			body:         `{"transactions":[]}`,
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "Please provide an array of transactions", resp["error"])
			},
		},
		{
			name:         "not an array",
			body:         `{"transactions":{"description":"Coffee"}}`,
			expectedCode: http.StatusBadRequest,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "Please provide an array of transactions", resp["error"])
			},
		},
		{
			name: "store unavailable",
			body: body,
			mockSetup: func(m *MockBulkCreator) {
				m.EXPECT().BulkCreate(gomock.Any(), userID, gomock.Any()).Return(models.BulkCreateReport{}, errors.New("connection refused"))
			},
			expectedCode: http.StatusInternalServerError,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "Server Error", resp["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockBulkCreator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr, resp := serve(NewBulkCreateHandler(mockSvc), newRequest(t, http.MethodPost, "/sync/transactions", tt.body, &userID, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			tt.check(t, resp)
		})
	}
}

func TestBulkUpdateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	body := `{"transactions":[{"_id":"a"},{"_id":"b"}]}`

	t.Run("all applied", func(t *testing.T) {
		mockSvc := NewMockBulkUpdater(ctrl)
		mockSvc.EXPECT().
			BulkUpdate(gomock.Any(), userID, []json.RawMessage{json.RawMessage(`{"_id":"a"}`), json.RawMessage(`{"_id":"b"}`)}).
			Return(models.BulkUpdateReport{UpdateCounts: models.UpdateCounts{MatchedCount: 2, ModifiedCount: 2}}, nil)

		rr, resp := serve(NewBulkUpdateHandler(mockSvc), newRequest(t, http.MethodPut, "/sync/transactions", body, &userID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, map[string]any{"matchedCount": float64(2), "modifiedCount": float64(2)}, resp["data"])
	})

	t.Run("partial success", func(t *testing.T) {
		mockSvc := NewMockBulkUpdater(ctrl)
		mockSvc.EXPECT().
			BulkUpdate(gomock.Any(), userID, gomock.Any()).
			Return(models.BulkUpdateReport{
				UpdateCounts: models.UpdateCounts{MatchedCount: 1, ModifiedCount: 1},
				Failures:     []models.BulkFailure{{Index: 1, Error: "invalid transaction id"}},
			}, nil)

		rr, resp := serve(NewBulkUpdateHandler(mockSvc), newRequest(t, http.MethodPut, "/sync/transactions", body, &userID, nil))

		assert.Equal(t, http.StatusMultiStatus, rr.Code)
		assert.Equal(t, "Partial success", resp["message"])
		assert.Len(t, resp["errors"], 1)
	})

	t.Run("missing transactions", func(t *testing.T) {
		rr, _ := serve(NewBulkUpdateHandler(NewMockBulkUpdater(ctrl)), newRequest(t, http.MethodPut, "/sync/transactions", `{}`, &userID, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty batch from service", func(t *testing.T) {
		mockSvc := NewMockBulkUpdater(ctrl)
		mockSvc.EXPECT().BulkUpdate(gomock.Any(), userID, gomock.Any()).Return(models.BulkUpdateReport{}, services.ErrEmptyBatch)

		rr, _ := serve(NewBulkUpdateHandler(mockSvc), newRequest(t, http.MethodPut, "/sync/transactions", body, &userID, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUnsyncedHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	tx := sampleTransaction(userID)
	tx.IsSynced = false

	mockSvc := NewMockUnsyncedPuller(ctrl)
	mockSvc.EXPECT().PullUnsynced(gomock.Any(), userID).Return([]models.TransactionDB{tx}, nil)

	rr, resp := serve(NewUnsyncedHandler(mockSvc), newRequest(t, http.MethodGet, "/sync/unsynced", nil, &userID, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, false, resp["data"].([]any)[0].(map[string]any)["isSynced"])
}

func TestMarkSyncedHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	id := uuid.New().String()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockSyncMarker)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "marked",
			body: `{"transactionIds":["` + id + `","garbage"]}`,
			mockSetup: func(m *MockSyncMarker) {
				m.EXPECT().
					MarkSynced(gomock.Any(), userID, []string{id, "garbage"}).
					Return(models.UpdateCounts{MatchedCount: 1, ModifiedCount: 1}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing ids",
			body:         `{}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Please provide an array of transaction IDs",
		},
		{
			name:         "ids not an array",
			body:         `{"transactionIds":"abc"}`,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Please provide an array of transaction IDs",
		},
		{
			name: "no valid ids",
			body: `{"transactionIds":["garbage"]}`,
			mockSetup: func(m *MockSyncMarker) {
				m.EXPECT().MarkSynced(gomock.Any(), userID, []string{"garbage"}).Return(models.UpdateCounts{}, services.ErrNoValidIDs)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "No valid transaction IDs provided",
		},
		{
			name: "store failure",
			body: `{"transactionIds":["` + id + `"]}`,
			mockSetup: func(m *MockSyncMarker) {
				m.EXPECT().MarkSynced(gomock.Any(), userID, gomock.Any()).Return(models.UpdateCounts{}, errors.New("boom"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSyncMarker(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr, resp := serve(NewMarkSyncedHandler(mockSvc), newRequest(t, http.MethodPatch, "/sync/mark-synced", tt.body, &userID, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedErr != "" {
				assert.Equal(t, tt.expectedErr, resp["error"])
				return
			}
			assert.Equal(t, map[string]any{"matchedCount": float64(1), "modifiedCount": float64(1)}, resp["data"])
		})
	}
}

func TestSyncStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	mockSvc := NewMockSyncStatuser(ctrl)

	t.Run("status", func(t *testing.T) {
		mockSvc.EXPECT().Status(gomock.Any(), userID).Return(models.SyncStatus{
			TotalTransactions:    4,
			SyncedTransactions:   3,
			UnsyncedTransactions: 1,
			SyncPercentage:       75,
			LastSyncAt:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}, nil)

		rr, resp := serve(NewSyncStatusHandler(mockSvc), newRequest(t, http.MethodGet, "/sync/status", nil, &userID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		data := resp["data"].(map[string]any)
		assert.Equal(t, float64(75), data["syncPercentage"])
		assert.Equal(t, float64(1), data["unsyncedTransactions"])
	})

	t.Run("store failure", func(t *testing.T) {
		mockSvc.EXPECT().Status(gomock.Any(), userID).Return(models.SyncStatus{}, errors.New("boom"))

		rr, _ := serve(NewSyncStatusHandler(mockSvc), newRequest(t, http.MethodGet, "/sync/status", nil, &userID, nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
