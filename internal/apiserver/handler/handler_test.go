package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/secugard/secugard/internal/apiserver/database"
	"github.com/secugard/secugard/internal/auth/acl"
	"github.com/secugard/secugard/internal/auth/jwt"
	"github.com/secugard/secugard/internal/common/config"
	"github.com/secugard/secugard/internal/common/errorx"
	"github.com/secugard/secugard/internal/core/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *gin.Engine
	store  *database.DBStore
	jwt    *jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.DatabaseConfig{
		Type:   "sqlite",
		DBName: filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := database.NewDBStore(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	jwtService, err := jwt.NewService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	errs := errorx.NewErrorHandler(logger, nil)
	engine := plan.NewEngine(store, logger)
	h := NewHandler(store, logger, jwtService, acl.NewStoreChecker(store), engine, errs)

	router := gin.New()
	h.RegisterRoutes(router)

	return &testServer{router: router, store: store, jwt: jwtService}
}

// newUser creates an account and returns a valid token for it.
func (s *testServer) newUser(t *testing.T, username string, role database.UserRole) (*database.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &database.User{Username: username, Password: string(hashed), Role: role, IsActive: true}
	require.NoError(t, s.store.CreateUser(context.Background(), user))
	token, err := s.jwt.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func seedZone(t *testing.T, store *database.DBStore) *database.Zone {
	t.Helper()
	ctx := context.Background()
	e := &database.Enterprise{Designation: "Acme Security"}
	require.NoError(t, store.CreateEnterprise(ctx, e))
	site := &database.Site{Designation: "HQ", EnterpriseID: e.ID}
	require.NoError(t, store.CreateSite(ctx, site))
	z := &database.Zone{Designation: "Warehouse", SiteID: site.ID}
	require.NoError(t, store.CreateZone(ctx, z))
	return z
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.newUser(t, "admin", database.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "E2002", errorCode(t, w))
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/zones", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionGate(t *testing.T) {
	s := newTestServer(t)
	user, token := s.newUser(t, "agent", database.RoleNormal)

	w := s.do(t, http.MethodGet, "/api/zones", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "E3001", errorCode(t, w))

	require.NoError(t, s.store.GrantPermission(context.Background(), user.ID, acl.Perm("view", "zone")))
	w = s.do(t, http.MethodGet, "/api/zones", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfirmPermissionCheckedBeforeState(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "agent", database.RoleNormal)
	z := seedZone(t, s.store)

	// Deny comes before any zone state read, so even a nonsense id is 403.
	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/confirm", z.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/zones/99999/confirm", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConfirmReopenFlow(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)
	ctx := context.Background()
	z := seedZone(t, s.store)

	require.NoError(t, s.store.CreateTag(ctx, &database.Tag{ZoneID: z.ID, CodeNFC: "NFC-1", Designation: "T1"}))
	require.NoError(t, s.store.CreateTag(ctx, &database.Tag{ZoneID: z.ID, CodeNFC: "NFC-2", Designation: "T2"}))

	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/days/0/plannings", z.ID), token,
		gin.H{"checkTime": "08:00", "toleratedTime": 15 * time.Minute})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/days/2/plannings", z.ID), token,
		gin.H{"checkTime": "14:00", "toleratedTime": 10 * time.Minute})
	require.Equal(t, http.StatusOK, w.Code)
	var created database.Planning
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Confirm: zone validated, one occurrence per planning and tag.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/confirm", z.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs, err := s.store.ListPatrolLogsByZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 4)

	// Editing a planning on a validated plan fails at form level.
	planningPath := fmt.Sprintf("/api/zones/%d/days/2/plannings/%d", z.ID, created.ID)
	w = s.do(t, http.MethodPut, planningPath, token,
		gin.H{"checkTime": "15:00", "toleratedTime": 10 * time.Minute})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "E1101", errorCode(t, w))

	// Confirming again is an invalid transition.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/confirm", z.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "E4101", errorCode(t, w))

	// Reopen keeps the generated rows and unlocks editing.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/reopen", z.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs, err = s.store.ListPatrolLogsByZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 4)

	w = s.do(t, http.MethodPut, planningPath, token,
		gin.H{"checkTime": "15:00", "toleratedTime": 10 * time.Minute})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanningScopeFromURL(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)
	z := seedZone(t, s.store)

	// Body cannot override the URL scope; day comes from the path.
	w := s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/days/4/plannings", z.ID), token,
		gin.H{"checkTime": "09:00", "toleratedTime": time.Minute, "zoneId": 999, "selectedDayIndex": 1})
	require.Equal(t, http.StatusOK, w.Code)
	var created database.Planning
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, z.ID, created.ZoneID)
	assert.Equal(t, database.DayFriday, created.SelectedDayIndex)

	// The planning is invisible under another day's scope.
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/zones/%d/days/1/plannings/%d", z.ID, created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Day index 7 is not a bucket.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/zones/%d/days/7/plannings", z.ID), token,
		gin.H{"checkTime": "09:00", "toleratedTime": time.Minute})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckPatrolLog(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)
	ctx := context.Background()
	z := seedZone(t, s.store)

	tag := &database.Tag{ZoneID: z.ID, CodeNFC: "NFC-1", Designation: "T1"}
	require.NoError(t, s.store.CreateTag(ctx, tag))
	emp := &database.Employee{Designation: "Diallo", CodePIN: "4821", SiteID: z.SiteID}
	require.NoError(t, s.store.CreateEmployee(ctx, emp))
	log := &database.PatrolLog{TagID: tag.ID, CheckDatetime: time.Now().Add(time.Hour)}
	require.NoError(t, s.store.CreatePatrolLog(ctx, log))

	path := fmt.Sprintf("/api/patrol-logs/%d/check", log.ID)

	w := s.do(t, http.MethodPost, path, token, gin.H{"codePin": "0000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path, token, gin.H{"codePin": "4821", "descriptionAnomaly": "broken lock"})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := s.store.GetPatrolLog(ctx, log.ID)
	require.NoError(t, err)
	assert.True(t, got.IsChecked)
	require.NotNil(t, got.CheckedByID)
	assert.Equal(t, emp.ID, *got.CheckedByID)
	assert.NotNil(t, got.CheckedDatetime)
	assert.Equal(t, "broken lock", got.DescriptionAnomaly)

	// A checked occurrence stays checked.
	w = s.do(t, http.MethodPost, path, token, gin.H{"codePin": "4821"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteEmployeeProtected(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)
	ctx := context.Background()
	z := seedZone(t, s.store)

	tag := &database.Tag{ZoneID: z.ID, CodeNFC: "NFC-1", Designation: "T1"}
	require.NoError(t, s.store.CreateTag(ctx, tag))
	emp := &database.Employee{Designation: "Diallo", CodePIN: "4821", SiteID: z.SiteID}
	require.NoError(t, s.store.CreateEmployee(ctx, emp))
	now := time.Now()
	require.NoError(t, s.store.CreatePatrolLog(ctx, &database.PatrolLog{
		TagID: tag.ID, CheckDatetime: now, IsChecked: true, CheckedDatetime: &now, CheckedByID: &emp.ID,
	}))

	w := s.do(t, http.MethodDelete, fmt.Sprintf("/api/employees/%d", emp.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "E4102", errorCode(t, w))
}

func TestEnterpriseCRUD(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/enterprises", token, gin.H{"designation": "Acme Security"})
	require.Equal(t, http.StatusOK, w.Code)
	var e database.Enterprise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/enterprises/%d", e.ID), token, gin.H{"designation": "Acme Guarding"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/enterprises/%d", e.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "Acme Guarding", e.Designation)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/enterprises/%d", e.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/enterprises/%d", e.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestZoneUpdateCannotTouchPlanState(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)
	ctx := context.Background()
	z := seedZone(t, s.store)

	w := s.do(t, http.MethodPut, fmt.Sprintf("/api/zones/%d", z.ID), token,
		gin.H{"designation": "Warehouse B", "siteId": z.SiteID, "planState": 2})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := s.store.GetZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Equal(t, database.PlanStateDraft, got.PlanState)
	assert.Equal(t, "Warehouse B", got.Designation)

	// A confirm committed before the update lands must survive it.
	z.PlanState = database.PlanStateValidated
	require.NoError(t, s.store.UpdateZone(ctx, z))

	w = s.do(t, http.MethodPut, fmt.Sprintf("/api/zones/%d", z.ID), token,
		gin.H{"designation": "Warehouse C", "siteId": z.SiteID})
	require.Equal(t, http.StatusOK, w.Code)

	got, err = s.store.GetZone(ctx, z.ID)
	require.NoError(t, err)
	assert.Equal(t, database.PlanStateValidated, got.PlanState)
	assert.Equal(t, "Warehouse C", got.Designation)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newUser(t, "admin", database.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/auth/change-password", token,
		gin.H{"oldPassword": "wrong", "newPassword": "next"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/change-password", token,
		gin.H{"oldPassword": "secret", "newPassword": "next"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "admin", "password": "next"})
	assert.Equal(t, http.StatusOK, w.Code)
}
