package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridwatch/internal/api/handlers"
	"gridwatch/internal/models"
	"gridwatch/internal/validation"
)

func zoneRouter(zones *stubZoneRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Initialize()
	handler := handlers.NewZoneHandler(zones)
	r := gin.New()
	r.GET("/zones", handler.ListZones)
	r.GET("/zones/:zone", handler.GetZone)
	r.GET("/countries", handler.ListCountries)
	return r
}

func TestListZones(t *testing.T) {
	router := zoneRouter(&stubZoneRepo{zones: []models.BiddingZone{
		testZone("NO1", "NO"),
		testZone("SE1", "SE"),
	}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/zones", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []models.BiddingZone
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestGetZone(t *testing.T) {
	router := zoneRouter(&stubZoneRepo{zones: []models.BiddingZone{testZone("NO1", "NO")}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/zones/NO1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BiddingZone
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO1", resp.ZoneCode)
	assert.Equal(t, "Europe/Oslo", resp.Timezone)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/zones/FI", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/zones/no1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCountries(t *testing.T) {
	router := zoneRouter(&stubZoneRepo{zones: []models.BiddingZone{
		testZone("NO1", "NO"),
		testZone("NO2", "NO"),
		testZone("SE1", "SE"),
	}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/countries", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []models.Country
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}
