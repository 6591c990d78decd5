package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hr-operations-api/internal/config"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	"github.com/yukikurage/hr-operations-api/internal/events"
	"github.com/yukikurage/hr-operations-api/internal/logger"
	"github.com/yukikurage/hr-operations-api/internal/storage"
	"github.com/yukikurage/hr-operations-api/internal/testutil"
)

func TestRootCommand(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestNewBlobStore(t *testing.T) {
	store, err := newBlobStore(&config.Config{StorageDriver: "local", StoragePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)

	_, err = newBlobStore(&config.Config{StorageDriver: "s3"})
	assert.Error(t, err)

	_, err = newBlobStore(&config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}

func TestNewRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	newRoutes(db, events.NoopInvalidator{}, nil, blobs, logger.Discard()).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
