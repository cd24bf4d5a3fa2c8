// file: controllers/content_controller.go
package controllers

import (
	"net/http"
	"time"

	"founders-fest/logger"
	"founders-fest/metrics"
	"founders-fest/store"
	"founders-fest/websocket"

	"github.com/gin-gonic/gin"
)

// CollectionRegistry resolves collection names to editors.
type CollectionRegistry interface {
	Get(name string) (store.Editor, bool)
	Names() []string
}

// ---------------- Content Controller ----------------

// ContentController serves the ordered content lists: full CRUD for admins and
// visible items for the public site.
type ContentController struct {
	Collections CollectionRegistry
	Recorder    metrics.Recorder
	Messenger   websocket.Messenger
}

// NewContentController initializes a ContentController. recorder and messenger may be nil.
func NewContentController(collections CollectionRegistry, recorder metrics.Recorder, messenger websocket.Messenger) *ContentController {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if messenger == nil {
		messenger = websocket.NopMessenger{}
	}
	return &ContentController{Collections: collections, Recorder: recorder, Messenger: messenger}
}

// editor resolves :name and, for year-scoped lists, ?year=.
func (cc *ContentController) editor(c *gin.Context) (store.Editor, int, bool) {
	ed, ok := cc.Collections.Get(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return nil, 0, false
	}
	year, err := queryYear(c, ed.IsScoped())
	if err != nil {
		respondError(c, "collection "+ed.Name(), err)
		return nil, 0, false
	}
	return ed, year, true
}

func (cc *ContentController) changed(ed store.Editor, op string, id any) {
	cc.Recorder.CollectionMutated(ed.Name(), op)
	cc.Messenger.Publish(websocket.Event{
		Action: websocket.ActionCollectionChanged,
		Topic:  ed.Name(),
		ID:     id,
		Data:   gin.H{"op": op},
		At:     time.Now().UTC(),
	})
	logger.Info.Printf("[Content] %s %s id=%v", ed.Name(), op, id)
}

// ---------------- admin endpoints ----------------

// Names lists every editable collection.
func (cc *ContentController) Names(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": cc.Collections.Names()})
}

// List returns every item, hidden ones included, in display order.
func (cc *ContentController) List(c *gin.Context) {
	ed, year, ok := cc.editor(c)
	if !ok {
		return
	}
	items, err := ed.List(c.Request.Context(), year)
	if err != nil {
		respondError(c, "list "+ed.Name(), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add appends a new visible item. The JSON body may override default fields.
func (cc *ContentController) Add(c *gin.Context) {
	ed, year, ok := cc.editor(c)
	if !ok {
		return
	}
	var overrides map[string]any
	if err := bindOptionalJSON(c, &overrides); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	item, err := ed.Add(c.Request.Context(), year, overrides)
	if err != nil {
		respondError(c, "add "+ed.Name(), err)
		return
	}
	cc.changed(ed, "add", nil)
	c.JSON(http.StatusCreated, item)
}

// Update writes the editable fields present in the JSON body.
func (cc *ContentController) Update(c *gin.Context) {
	ed, ok := cc.Collections.Get(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "update "+ed.Name(), err)
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	if err := ed.Update(c.Request.Context(), id, fields); err != nil {
		respondError(c, "update "+ed.Name(), err)
		return
	}
	cc.changed(ed, "update", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ToggleVisible flips an item's visibility.
func (cc *ContentController) ToggleVisible(c *gin.Context) {
	ed, ok := cc.Collections.Get(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "toggle "+ed.Name(), err)
		return
	}
	if err := ed.ToggleVisible(c.Request.Context(), id); err != nil {
		respondError(c, "toggle "+ed.Name(), err)
		return
	}
	cc.changed(ed, "toggle", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Remove deletes an item. Remaining orders are left as they are.
func (cc *ContentController) Remove(c *gin.Context) {
	ed, ok := cc.Collections.Get(c.Param("name"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "remove "+ed.Name(), err)
		return
	}
	if err := ed.Remove(c.Request.Context(), id); err != nil {
		respondError(c, "remove "+ed.Name(), err)
		return
	}
	cc.changed(ed, "remove", id)
	c.Status(http.StatusNoContent)
}

type moveRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// Move swaps an item with its neighbour. Body: {"direction":"up"|"down"}.
func (cc *ContentController) Move(c *gin.Context) {
	ed, year, ok := cc.editor(c)
	if !ok {
		return
	}
	id, err := paramID(c)
	if err != nil {
		respondError(c, "move "+ed.Name(), err)
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "direction is required")
		return
	}
	dir, ok := store.ParseDirection(req.Direction)
	if !ok {
		badRequest(c, "direction must be up or down")
		return
	}
	if err := ed.Move(c.Request.Context(), year, id, dir); err != nil {
		respondError(c, "move "+ed.Name(), err)
		return
	}
	cc.changed(ed, "move", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------------- public endpoint ----------------

// PublicList serves the visible items of :name for the public site.
func (cc *ContentController) PublicList(c *gin.Context) {
	ed, year, ok := cc.editor(c)
	if !ok {
		return
	}
	items, err := ed.ListVisible(c.Request.Context(), year)
	if err != nil {
		respondError(c, "public list "+ed.Name(), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
