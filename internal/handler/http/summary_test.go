package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/vaultscribe/internal/adapter"
	"github.com/MKhiriev/vaultscribe/internal/app"
	"github.com/MKhiriev/vaultscribe/internal/mock"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/models"
)

func TestSubmitSummary(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(s *mock.MockSummaryService)
		wantStatus int
		wantError  string
	}{
		{
			name: "text queued",
			body: models.SummaryTextRequest{Text: "meeting notes"},
			setup: func(s *mock.MockSummaryService) {
				s.EXPECT().Submit(gomock.Any(), testAccount, models.SummaryRequest{Text: "meeting notes"}).
					Return(models.SummaryJob{ID: "job-1", Status: models.SummaryQueued}, nil)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "server-side audio path rejected",
			body:       `{"audio_path":"/etc/passwd"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  app.MsgInvalidDataProvided,
		},
		{
			name:       "audio path alongside text rejected",
			body:       `{"audio_path":"/etc/passwd","text":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  app.MsgInvalidDataProvided,
		},
		{
			name:       "neither audio nor text",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  app.MsgInvalidDataProvided,
		},
		{
			name: "service rejects request",
			body: models.SummaryTextRequest{Text: "x"},
			setup: func(s *mock.MockSummaryService) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.SummaryJob{}, service.ErrInvalidSummaryRequest)
			},
			wantStatus: http.StatusBadRequest,
			wantError:  app.MsgInvalidSummaryRequest,
		},
		{
			name: "queue full",
			body: models.SummaryTextRequest{Text: "x"},
			setup: func(s *mock.MockSummaryService) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(models.SummaryJob{}, service.ErrSummaryQueueFull)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  app.MsgSummaryQueueFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authSvc, summarySvc := newTestRouter(t)
			expectSession(authSvc)
			if tt.setup != nil {
				tt.setup(summarySvc)
			}

			rr := doJSON(t, router, http.MethodPost, "/api/summaries", tt.body, testSessionToken)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[models.ErrorResponse](t, rr).Error)
				return
			}
			assert.Equal(t, "job-1", decodeBody[models.SummaryJobResponse](t, rr).JobID)
			assert.Equal(t, "/api/summaries/job-1", rr.Header().Get("Location"))
		})
	}
}

func TestGetSummary(t *testing.T) {
	t.Run("finished job", func(t *testing.T) {
		router, authSvc, summarySvc := newTestRouter(t)
		expectSession(authSvc)
		finished := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
		summarySvc.EXPECT().Get(gomock.Any(), testAccount, "job-1").Return(models.SummaryJob{
			ID:         "job-1",
			Status:     models.SummaryDone,
			Summary:    "short",
			FinishedAt: finished,
		}, nil)

		rr := doJSON(t, router, http.MethodGet, "/api/summaries/job-1", nil, testSessionToken)

		require.Equal(t, http.StatusOK, rr.Code)
		job := decodeBody[models.SummaryJob](t, rr)
		assert.Equal(t, models.SummaryDone, job.Status)
		assert.Equal(t, "short", job.Summary)
	})

	t.Run("someone else's job", func(t *testing.T) {
		router, authSvc, summarySvc := newTestRouter(t)
		expectSession(authSvc)
		summarySvc.EXPECT().Get(gomock.Any(), testAccount, "job-2").Return(models.SummaryJob{}, service.ErrSummaryNotFound)

		rr := doJSON(t, router, http.MethodGet, "/api/summaries/job-2", nil, testSessionToken)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, app.MsgSummaryNotFound, decodeBody[models.ErrorResponse](t, rr).Error)
	})

	t.Run("failed job still reads fine", func(t *testing.T) {
		router, authSvc, summarySvc := newTestRouter(t)
		expectSession(authSvc)
		summarySvc.EXPECT().Get(gomock.Any(), gomock.Any(), "job-3").Return(models.SummaryJob{
			ID:     "job-3",
			Status: models.SummaryFailed,
			Error:  adapter.ErrTranscriberDisabled.Error(),
		}, nil)

		rr := doJSON(t, router, http.MethodGet, "/api/summaries/job-3", nil, testSessionToken)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, models.SummaryFailed, decodeBody[models.SummaryJob](t, rr).Status)
	})
}
