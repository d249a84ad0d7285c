package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	api "github.com/artem13815/growth/api/http"
	"github.com/artem13815/growth/api/http/handlers"
	"github.com/artem13815/growth/pkg/auth"
	"github.com/artem13815/growth/pkg/growth"
	"github.com/artem13815/growth/pkg/health"
	"github.com/artem13815/growth/pkg/logger"
	"github.com/artem13815/growth/pkg/profile"
	"github.com/artem13815/growth/pkg/repository/memory"
	"github.com/artem13815/growth/pkg/security/jwt"
	"github.com/artem13815/growth/pkg/taxonomy"
)

const (
	testSecret = "test-secret"
	testIssuer = "growth-test"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWith(t, memory.NewSkillRepository(), logger.Nop())
}

func newTestAppWith(t *testing.T, skills profile.Repository, lg *logger.Logger) *fiber.App {
	t.Helper()
	table := taxonomy.Default()
	tokens := jwt.NewGenerator(testSecret, testIssuer, time.Hour)
	growthUC := growth.NewService(
		memory.NewGrowthRepository(),
		skills,
		growth.NewEngine(table, growth.ExperienceBands{}, 70, 50),
		nil,
		logger.Nop(),
	)

	app := api.NewApp(lg)
	api.Register(app, api.Handlers{
		Auth:    handlers.NewAuthHandler(auth.NewAuthService(memory.NewUserRepository(), tokens)),
		Health:  handlers.NewHealthHandler(health.NewService(time.Second)),
		Profile: handlers.NewProfileHandler(profile.NewService(skills, table)),
		Goals:   handlers.NewGoalHandler(growthUC),
		Gaps:    handlers.NewGapHandler(growthUC),
		Paths:   handlers.NewPathHandler(growthUC),
		Summary: handlers.NewSummaryHandler(growthUC),
	}, jwt.NewAuthMiddleware(testSecret, testIssuer))
	return app
}

var errSkillStore = errors.New("skill store unavailable")

// brokenSkills fails every call.
type brokenSkills struct{}

func (brokenSkills) ListByUser(context.Context, uuid.UUID) ([]profile.Skill, error) {
	return nil, errSkillStore
}
func (brokenSkills) Upsert(context.Context, profile.Skill) (profile.Skill, error) {
	return profile.Skill{}, errSkillStore
}
func (brokenSkills) DeleteForOwner(context.Context, uuid.UUID, uuid.UUID) error {
	return errSkillStore
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c *client) decode(raw []byte, v any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(raw, v), string(raw))
}

func register(t *testing.T, app *fiber.App, email string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	status, raw := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{"email": email, "password": "correct-horse"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var out struct {
		Token string `json:"token"`
	}
	c.decode(raw, &out)
	c.token = out.Token
	return c
}

func TestHealth(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	status, _ := c.do(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	status, raw := c.do(http.MethodGet, "/api/v1/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ready","checks":{}}`, string(raw))
}

func TestUnexpectedErrorIsLoggedAndHidden(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	app := newTestAppWith(t, brokenSkills{}, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	c := register(t, app, "dev@example.com")

	status, raw := c.do(http.MethodGet, "/api/v1/profile/skills", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"internal error"}`, string(raw))

	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/v1/profile/skills", fields["path"])
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Contains(t, fmt.Sprint(fields["err"]), errSkillStore.Error())

	// mapped domain errors are not logged
	status, _ = c.do(http.MethodDelete, "/api/v1/profile/skills/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, logs.FilterMessage("request failed").All(), 1)
}

func TestGrowthRequiresToken(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	status, _ := c.do(http.MethodGet, "/api/v1/growth/goals", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGoalFlow(t *testing.T) {
	app := newTestApp(t)
	c := register(t, app, "dev@example.com")

	status, raw := c.do(http.MethodPut, "/api/v1/profile/skills", map[string]any{"name": "Python", "yearsOfExperience": 5})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = c.do(http.MethodPost, "/api/v1/growth/goals", map[string]any{
		"targetRole":      "Cloud Engineer",
		"targetLevel":     "MIDDLE",
		"jobRequirements": "Requirements: Python, Docker, AWS",
		"targetDate":      "2027-06-30",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var goal growth.Goal
	c.decode(raw, &goal)
	assert.True(t, goal.IsPrimary)
	require.NotNil(t, goal.MatchScore)
	assert.Equal(t, 33, *goal.MatchScore)

	status, raw = c.do(http.MethodGet, "/api/v1/growth/goals/"+goal.ID.String()+"/gaps", nil)
	require.Equal(t, http.StatusOK, status)
	var gaps []growth.SkillGap
	c.decode(raw, &gaps)
	assert.Len(t, gaps, 2)

	status, raw = c.do(http.MethodGet, "/api/v1/growth/goals/"+goal.ID.String()+"/paths", nil)
	require.Equal(t, http.StatusOK, status)
	var paths []growth.LearningPath
	c.decode(raw, &paths)
	require.Len(t, paths, 2)

	for _, p := range paths {
		for _, m := range p.Milestones {
			status, raw = c.do(http.MethodPost, "/api/v1/growth/milestones/"+m.ID.String()+"/complete", nil)
			require.Equal(t, http.StatusOK, status, string(raw))
		}
	}

	status, raw = c.do(http.MethodGet, "/api/v1/growth/goals/"+goal.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	c.decode(raw, &goal)
	assert.Equal(t, 100, goal.ProgressPercent)
	assert.Equal(t, growth.GoalAchieved, goal.Status)

	status, raw = c.do(http.MethodDelete, "/api/v1/growth/goals/"+goal.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, status, string(raw))

	status, raw = c.do(http.MethodGet, "/api/v1/growth/summary", nil)
	require.Equal(t, http.StatusOK, status)
	var sum growth.Summary
	c.decode(raw, &sum)
	assert.Equal(t, 1, sum.AchievedGoals)
	assert.Equal(t, 0, sum.ActiveGoals)
	assert.Len(t, sum.RecentMilestones, 2)

	status, raw = c.do(http.MethodGet, "/api/v1/growth/goals?status=ACHIEVED&limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	var list struct {
		Items []growth.Goal `json:"items"`
		Total int           `json:"total"`
	}
	c.decode(raw, &list)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Items, 1)
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	owner := register(t, app, "owner@example.com")
	other := register(t, app, "other@example.com")

	status, raw := owner.do(http.MethodPost, "/api/v1/growth/goals", map[string]any{"targetRole": "SRE", "jobRequirements": "Linux, Kubernetes"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var goal growth.Goal
	owner.decode(raw, &goal)

	cases := []struct {
		name   string
		c      *client
		method string
		path   string
		body   any
		status int
	}{
		{"foreign goal", other, http.MethodGet, "/api/v1/growth/goals/" + goal.ID.String(), nil, http.StatusNotFound},
		{"bad id", owner, http.MethodGet, "/api/v1/growth/goals/not-a-uuid", nil, http.StatusBadRequest},
		{"bad date", owner, http.MethodPost, "/api/v1/growth/goals", map[string]any{"targetRole": "SRE", "targetDate": "soon"}, http.StatusBadRequest},
		{"missing role", owner, http.MethodPost, "/api/v1/growth/goals", map[string]any{}, http.StatusBadRequest},
		{"bad status filter", owner, http.MethodGet, "/api/v1/growth/goals?status=DONE", nil, http.StatusBadRequest},
		{"resume active", owner, http.MethodPost, "/api/v1/growth/goals/" + goal.ID.String() + "/resume", nil, http.StatusConflict},
		{"unknown category", owner, http.MethodPut, "/api/v1/profile/skills", map[string]any{"name": "Go", "category": "magic"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.c.t = t
			status, raw := tc.c.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status, string(raw))
			var e struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(raw, &e))
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestAuthErrors(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "dev@example.com")
	c := &client{t: t, app: app}

	status, _ := c.do(http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "dev@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "dev@example.com", "password": "wrong-horse"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "dev@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusOK, status)
}
