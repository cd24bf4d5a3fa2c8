// file: controllers/settings_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"founders-fest/logger"
	"founders-fest/models"
	"founders-fest/websocket"

	"github.com/gin-gonic/gin"
)

// SettingsStore is the settings repository used by the handlers.
type SettingsStore interface {
	HomeSettings(ctx context.Context) (models.HomeSettings, error)
	SaveHomeSettings(ctx context.Context, hs models.HomeSettings) (models.HomeSettings, error)
	AboutSection(ctx context.Context, year int) (models.AboutSection, error)
	SaveAboutSection(ctx context.Context, as models.AboutSection) (models.AboutSection, error)
	EmailSettings(ctx context.Context, key string) (models.EmailSettings, error)
	SaveEmailSettings(ctx context.Context, es models.EmailSettings) (models.EmailSettings, error)
	Values(ctx context.Context, table string) ([]models.KeyValue, error)
	Value(ctx context.Context, table, key string) (models.KeyValue, error)
	PutValue(ctx context.Context, table, key, value string) error
	InsertValue(ctx context.Context, table, key, value string) error
	DeleteValue(ctx context.Context, table, key string) error
}

// ---------------- Settings Controller ----------------

// SettingsController reads and writes the singleton settings and key/value tables.
type SettingsController struct {
	Settings  SettingsStore
	Messenger websocket.Messenger
}

// NewSettingsController initializes a SettingsController.
func NewSettingsController(settings SettingsStore, messenger websocket.Messenger) *SettingsController {
	if messenger == nil {
		messenger = websocket.NopMessenger{}
	}
	return &SettingsController{Settings: settings, Messenger: messenger}
}

func (sc *SettingsController) changed(topic string, data any) {
	sc.Messenger.Publish(websocket.Event{
		Action: websocket.ActionCollectionChanged,
		Topic:  topic,
		Data:   data,
		At:     time.Now().UTC(),
	})
	logger.Info.Printf("[Settings] %s updated", topic)
}

// ---------------- home ----------------

// Home returns the landing page settings.
func (sc *SettingsController) Home(c *gin.Context) {
	hs, err := sc.Settings.HomeSettings(c.Request.Context())
	if err != nil {
		respondError(c, "home settings", err)
		return
	}
	c.JSON(http.StatusOK, hs)
}

// SaveHome replaces the landing page settings.
func (sc *SettingsController) SaveHome(c *gin.Context) {
	var hs models.HomeSettings
	if err := c.ShouldBindJSON(&hs); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	saved, err := sc.Settings.SaveHomeSettings(c.Request.Context(), hs)
	if err != nil {
		respondError(c, "save home settings", err)
		return
	}
	sc.changed("home-settings", saved)
	c.JSON(http.StatusOK, saved)
}

// ---------------- about ----------------

func paramYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, "invalid year")
		return 0, false
	}
	return year, true
}

// About returns the about page settings for :year.
func (sc *SettingsController) About(c *gin.Context) {
	year, ok := paramYear(c)
	if !ok {
		return
	}
	as, err := sc.Settings.AboutSection(c.Request.Context(), year)
	if err != nil {
		respondError(c, "about section", err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// SaveAbout upserts the about page settings for :year.
func (sc *SettingsController) SaveAbout(c *gin.Context) {
	year, ok := paramYear(c)
	if !ok {
		return
	}
	var as models.AboutSection
	if err := c.ShouldBindJSON(&as); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	as.Year = year
	saved, err := sc.Settings.SaveAboutSection(c.Request.Context(), as)
	if err != nil {
		respondError(c, "save about section", err)
		return
	}
	sc.changed("about-section", saved)
	c.JSON(http.StatusOK, saved)
}

// ---------------- email templates ----------------

// Email returns the template stored under :key.
func (sc *SettingsController) Email(c *gin.Context) {
	es, err := sc.Settings.EmailSettings(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, "email settings", err)
		return
	}
	c.JSON(http.StatusOK, es)
}

// SaveEmail upserts the template stored under :key.
func (sc *SettingsController) SaveEmail(c *gin.Context) {
	var es models.EmailSettings
	if err := c.ShouldBindJSON(&es); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	es.Key = c.Param("key")
	saved, err := sc.Settings.SaveEmailSettings(c.Request.Context(), es)
	if err != nil {
		respondError(c, "save email settings", err)
		return
	}
	sc.changed("email-settings", gin.H{"key": saved.Key})
	c.JSON(http.StatusOK, saved)
}

// ---------------- key/value tables ----------------

// KeyValues serves one key/value table. The public site reads it; admins edit it.
type KeyValues struct {
	sc    *SettingsController
	table string
}

// KeyValues returns handlers bound to table.
func (sc *SettingsController) KeyValues(table string) KeyValues {
	return KeyValues{sc: sc, table: table}
}

// List returns every key in the table.
func (kv KeyValues) List(c *gin.Context) {
	rows, err := kv.sc.Settings.Values(c.Request.Context(), kv.table)
	if err != nil {
		respondError(c, "list "+kv.table, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// Get returns :key.
func (kv KeyValues) Get(c *gin.Context) {
	row, err := kv.sc.Settings.Value(c.Request.Context(), kv.table, c.Param("key"))
	if err != nil {
		respondError(c, "get "+kv.table, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

type valueRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Create adds a new key; an existing key is a conflict.
func (kv KeyValues) Create(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		badRequest(c, "key is required")
		return
	}
	if err := kv.sc.Settings.InsertValue(c.Request.Context(), kv.table, req.Key, req.Value); err != nil {
		respondError(c, "insert "+kv.table, err)
		return
	}
	kv.sc.changed(kv.table, gin.H{"key": req.Key})
	c.JSON(http.StatusCreated, gin.H{"key": req.Key, "value": req.Value})
}

// Put upserts :key.
func (kv KeyValues) Put(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	key := c.Param("key")
	if err := kv.sc.Settings.PutValue(c.Request.Context(), kv.table, key, req.Value); err != nil {
		respondError(c, "put "+kv.table, err)
		return
	}
	kv.sc.changed(kv.table, gin.H{"key": key})
	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}

// Delete removes :key.
func (kv KeyValues) Delete(c *gin.Context) {
	if err := kv.sc.Settings.DeleteValue(c.Request.Context(), kv.table, c.Param("key")); err != nil {
		respondError(c, "delete "+kv.table, err)
		return
	}
	kv.sc.changed(kv.table, gin.H{"key": c.Param("key")})
	c.Status(http.StatusNoContent)
}
