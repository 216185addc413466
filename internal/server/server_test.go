package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/dezx-api/internal/config"
	apierrors "github.com/yukikurage/dezx-api/internal/errors"
	"github.com/yukikurage/dezx-api/internal/logging"
	"github.com/yukikurage/dezx-api/internal/testutil"
)

// ServerTestSuite drives the full router over HTTP.
type ServerTestSuite struct {
	suite.Suite
	srv *Server
}

func (s *ServerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:     "server-test-secret",
		JWTExpiry:     time.Hour,
		CORSOrigins:   []string{"*"},
		AuthRateLimit: 1000,
		AuthRateBurst: 1000,
	}
	s.srv = New(Options{
		Config:       cfg,
		DB:           testutil.NewDB(s.T()),
		Log:          logging.Discard(),
		SessionStore: cookie.NewStore([]byte("secret")),
	})
	s.T().Cleanup(s.srv.Close)
}

func (s *ServerTestSuite) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.srv.Router.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) decode(w *httptest.ResponseRecorder, out interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
}

func (s *ServerTestSuite) register(name, role string) (token, id string) {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "supersecret",
		"role":     role,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	s.decode(w, &resp)
	return resp.Token, resp.User.ID
}

func (s *ServerTestSuite) superadmin() string {
	created, err := s.srv.Auth.EnsureSuperadmin(context.Background(), "Root", "root@example.com", "supersecret")
	s.Require().NoError(err)
	s.Require().True(created)

	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "root@example.com",
		"password": "supersecret",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	s.decode(w, &resp)
	return resp.Token
}

func (s *ServerTestSuite) createProject(token string) string {
	w := s.do(http.MethodPost, "/api/projects", token, map[string]interface{}{
		"title":      "Landing page",
		"category":   "web",
		"budget_min": 100,
		"budget_max": 500,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project struct {
		ID string `json:"id"`
	}
	s.decode(w, &project)
	return project.ID
}

func (s *ServerTestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp apierrors.APIError
	s.decode(w, &resp)
	return resp.Code
}

func (s *ServerTestSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "dezx_http_requests_total")
}

func (s *ServerTestSuite) TestProposalLifecycleOverHTTP() {
	clientToken, _ := s.register("client", "client")
	designerToken, _ := s.register("designer", "designer")
	rivalToken, _ := s.register("rival", "designer")
	projectID := s.createProject(clientToken)

	propose := func(token string) *httptest.ResponseRecorder {
		return s.do(http.MethodPost, "/api/proposals", token, map[string]interface{}{
			"project_id":   projectID,
			"cover_letter": "I have done this before",
		})
	}

	w := propose(designerToken)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var proposal struct {
		ID string `json:"id"`
	}
	s.decode(w, &proposal)

	s.Require().Equal(http.StatusCreated, propose(rivalToken).Code)

	w = propose(designerToken)
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPut, "/api/proposals/"+proposal.ID+"/approve", designerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/proposals/"+proposal.ID+"/approve", clientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/projects/"+projectID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var project struct {
		Status             string `json:"status"`
		ApprovedProposalID string `json:"approved_proposal_id"`
		ProposalCount      int    `json:"proposal_count"`
	}
	s.decode(w, &project)
	s.Equal("in_progress", project.Status)
	s.Equal(proposal.ID, project.ApprovedProposalID)
	s.Equal(2, project.ProposalCount)

	w = s.do(http.MethodGet, "/api/proposals/project/"+projectID, clientToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var proposals []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(w, &proposals)
	s.Len(proposals, 2)
	for _, p := range proposals {
		if p.ID == proposal.ID {
			s.Equal("approved", p.Status)
		} else {
			s.Equal("rejected", p.Status)
		}
	}

	w = s.do(http.MethodGet, "/api/proposals/my", designerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var mine []struct {
		ProjectTitle string `json:"project_title"`
	}
	s.decode(w, &mine)
	s.Require().Len(mine, 1)
	s.Equal("Landing page", mine[0].ProjectTitle)
}

func (s *ServerTestSuite) TestNonOwnerUpdateIsForbidden() {
	ownerToken, _ := s.register("owner", "client")
	otherToken, _ := s.register("other", "client")
	projectID := s.createProject(ownerToken)

	w := s.do(http.MethodPut, "/api/projects/"+projectID, otherToken, map[string]string{"title": "Mine now"})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apierrors.ErrCodeForbidden, s.errorCode(w))

	w = s.do(http.MethodPut, "/api/projects/"+projectID, "", map[string]string{"title": "Anonymous"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ServerTestSuite) TestFeatureToggleAndBlocking() {
	adminToken := s.superadmin()
	clientToken, clientID := s.register("client", "client")

	w := s.do(http.MethodPut, "/api/admin/settings", adminToken, map[string]bool{"is_freelance_enabled": false})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/projects", clientToken, map[string]string{"title": "Blocked by toggle"})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apierrors.ErrCodeFeatureDisabled, s.errorCode(w))

	w = s.do(http.MethodPut, "/api/admin/settings", adminToken, map[string]bool{"is_freelance_enabled": true})
	s.Require().Equal(http.StatusOK, w.Code)
	s.createProject(clientToken)

	w = s.do(http.MethodPut, "/api/users/"+clientID+"/block", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/projects", clientToken, map[string]string{"title": "Blocked user"})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal(apierrors.ErrCodeAccountBlocked, s.errorCode(w))

	w = s.do(http.MethodGet, "/api/projects", clientToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "client@example.com",
		"password": "supersecret",
	})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/admin/audit-logs?entity_type=user", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var logs struct {
		Logs []struct {
			ActionType string `json:"action_type"`
		} `json:"logs"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	s.decode(w, &logs)
	s.Equal(1, logs.Pagination.Total)
	s.Equal("block", logs.Logs[0].ActionType)
}

func (s *ServerTestSuite) TestWinnerSelectionOverHTTP() {
	clientToken, _ := s.register("host", "client")
	firstToken, _ := s.register("first", "designer")
	secondToken, secondID := s.register("second", "designer")

	now := time.Now().UTC()
	w := s.do(http.MethodPost, "/api/competitions", clientToken, map[string]interface{}{
		"title":      "Mascot",
		"start_date": now.Add(-time.Hour),
		"end_date":   now.Add(48 * time.Hour),
		"prizes": []map[string]interface{}{
			{"position": 1, "amount": 500, "description": "Gold"},
		},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var competition struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(w, &competition)
	s.Equal("active", competition.Status)

	submit := func(token string) string {
		w := s.do(http.MethodPost, "/api/submissions", token, map[string]string{
			"competition_id": competition.ID,
			"title":          "My mascot",
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var sub struct {
			ID string `json:"id"`
		}
		s.decode(w, &sub)
		return sub.ID
	}
	s1 := submit(firstToken)
	s2 := submit(secondToken)

	w = s.do(http.MethodPut, "/api/submissions/"+s1+"/winner", clientToken, map[string]int{"position": 1})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPut, "/api/submissions/"+s2+"/winner", clientToken, map[string]int{"position": 1})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPut, "/api/submissions/"+s2+"/winner", clientToken, map[string]int{"position": 5})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/submissions/competition/"+competition.ID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var subs []struct {
		ID             string `json:"id"`
		IsWinner       bool   `json:"is_winner"`
		WinnerPosition *int   `json:"winner_position"`
	}
	s.decode(w, &subs)
	s.Require().Len(subs, 2)
	s.Equal(s2, subs[0].ID)
	s.True(subs[0].IsWinner)
	s.False(subs[1].IsWinner)
	s.Nil(subs[1].WinnerPosition)

	w = s.do(http.MethodGet, "/api/competitions/"+competition.ID, "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail struct {
		WinnerIDs       []string `json:"winner_ids"`
		SubmissionCount int      `json:"submission_count"`
	}
	s.decode(w, &detail)
	s.Contains(detail.WinnerIDs, secondID)
	s.Equal(2, detail.SubmissionCount)
}

func (s *ServerTestSuite) TestMaintenanceMode() {
	adminToken := s.superadmin()
	clientToken, _ := s.register("client", "client")

	w := s.do(http.MethodPut, "/api/admin/settings", adminToken, map[string]bool{"maintenance_mode": true})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/projects", clientToken, map[string]string{"title": "During maintenance"})
	s.Equal(http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodGet, "/api/projects", clientToken, nil)
	s.Equal(http.StatusOK, w.Code)

	s.createProject(adminToken)
}

func (s *ServerTestSuite) TestNotificationsAndBroadcast() {
	adminToken := s.superadmin()
	designerToken, _ := s.register("designer", "designer")

	w := s.do(http.MethodPost, "/api/admin/broadcast", adminToken, map[string]string{
		"message": "Welcome aboard",
		"role":    "designer",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var sent struct {
		Recipients int `json:"recipients"`
	}
	s.decode(w, &sent)
	s.Equal(1, sent.Recipients)

	w = s.do(http.MethodGet, "/api/notifications", designerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var notes []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		IsRead  bool   `json:"is_read"`
	}
	s.decode(w, &notes)
	s.Require().Len(notes, 1)
	s.Equal("Welcome aboard", notes[0].Message)

	w = s.do(http.MethodPut, "/api/notifications/"+notes[0].ID+"/read", designerToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/api/notifications/missing/read", designerToken, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/admin/stats", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats map[string]int
	s.decode(w, &stats)
	s.Equal(2, stats["total_users"])
	s.Equal(1, stats["designers"])

	w = s.do(http.MethodGet, "/api/admin/recent-activity", adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var activity []struct {
		Message string `json:"message"`
	}
	s.decode(w, &activity)
	s.Require().NotEmpty(activity)
	s.Equal("New designer registered: designer", activity[0].Message)

	w = s.do(http.MethodGet, "/api/admin/stats", designerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *ServerTestSuite) TestContentAndSettingsArePublic() {
	w := s.do(http.MethodGet, "/api/content", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var content map[string]interface{}
	s.decode(w, &content)
	s.Equal("Join now", content["primary_cta"])

	w = s.do(http.MethodGet, "/api/settings", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var settings struct {
		IsFreelanceEnabled bool `json:"is_freelance_enabled"`
	}
	s.decode(w, &settings)
	s.True(settings.IsFreelanceEnabled)

	w = s.do(http.MethodPut, "/api/content", "", map[string]string{"primary_cta": "Nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
