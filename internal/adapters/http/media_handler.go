package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// MediaHandler exposes the media library and its playlists
type MediaHandler struct {
	store  ports.MediaStore
	logger *logger.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(store ports.MediaStore, logger *logger.Logger) *MediaHandler {
	return &MediaHandler{
		store:  store,
		logger: logger,
	}
}

// ListItems returns the filtered media view
func (h *MediaHandler) ListItems(c echo.Context) error {
	h.applyQueryFilter(c)
	return c.JSON(http.StatusOK, h.store.Filtered())
}

// GroupedItems returns the filtered view partitioned by media type
func (h *MediaHandler) GroupedItems(c echo.Context) error {
	order, groups := h.store.GroupedByType()

	type group struct {
		Type  entities.MediaType   `json:"type"`
		Items []entities.MediaItem `json:"items"`
	}
	result := make([]group, 0, len(order))
	for _, mediaType := range order {
		result = append(result, group{Type: mediaType, Items: groups[mediaType]})
	}
	return c.JSON(http.StatusOK, result)
}

// ListFavorites returns all favorite items
func (h *MediaHandler) ListFavorites(c echo.Context) error {
	favorites := h.store.Favorites()
	if favorites == nil {
		favorites = []entities.MediaItem{}
	}
	return c.JSON(http.StatusOK, favorites)
}

// ClearFilters resets the store's filter state
func (h *MediaHandler) ClearFilters(c echo.Context) error {
	h.store.ClearFilters()
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Filters cleared"})
}

// CreateItem adds a new media item
func (h *MediaHandler) CreateItem(c echo.Context) error {
	var req ports.CreateMediaItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Type.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media type")
	}

	item, err := h.store.AddItem(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create media item failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem updates an existing media item
func (h *MediaHandler) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	var req ports.UpdateMediaItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Type != nil && !req.Type.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid media type")
	}

	item, err := h.store.UpdateItem(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("Update media item failed", "error", err, "item_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes a media item and cascades it out of every playlist
func (h *MediaHandler) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	if err := h.store.DeleteItem(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete media item failed", "error", err, "item_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Media item deleted"})
}

// ToggleFavorite flips an item's favorite flag
func (h *MediaHandler) ToggleFavorite(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	item, err := h.store.ToggleFavorite(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Toggle favorite failed", "error", err, "item_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// ListPlaylists returns all playlists
func (h *MediaHandler) ListPlaylists(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Playlists())
}

// CreatePlaylist adds a new empty playlist
func (h *MediaHandler) CreatePlaylist(c echo.Context) error {
	var req ports.CreatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	playlist, err := h.store.CreatePlaylist(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create playlist failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, playlist)
}

// UpdatePlaylist updates playlist metadata
func (h *MediaHandler) UpdatePlaylist(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid playlist ID")
	}

	var req ports.UpdatePlaylistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	playlist, err := h.store.UpdatePlaylist(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("Update playlist failed", "error", err, "playlist_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, playlist)
}

// DeletePlaylist removes a playlist
func (h *MediaHandler) DeletePlaylist(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid playlist ID")
	}

	if err := h.store.DeletePlaylist(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete playlist failed", "error", err, "playlist_id", id)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Playlist deleted"})
}

// AddToPlaylist inserts a media item snapshot into a playlist
func (h *MediaHandler) AddToPlaylist(c echo.Context) error {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid playlist ID")
	}

	var req struct {
		ItemID uuid.UUID `json:"item_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	playlist, err := h.store.AddToPlaylist(c.Request().Context(), playlistID, req.ItemID)
	if err != nil {
		h.logger.Error("Add to playlist failed", "error", err, "playlist_id", playlistID, "item_id", req.ItemID)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, playlist)
}

// RemoveFromPlaylist drops a media item from a playlist
func (h *MediaHandler) RemoveFromPlaylist(c echo.Context) error {
	playlistID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid playlist ID")
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid item ID")
	}

	playlist, err := h.store.RemoveFromPlaylist(c.Request().Context(), playlistID, itemID)
	if err != nil {
		h.logger.Error("Remove from playlist failed", "error", err, "playlist_id", playlistID, "item_id", itemID)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, playlist)
}

func (h *MediaHandler) applyQueryFilter(c echo.Context) {
	filter := ports.MediaFilter{}
	applied := false

	if mediaType := c.QueryParam("type"); mediaType != "" {
		t := entities.MediaType(mediaType)
		filter.Type = &t
		applied = true
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
		applied = true
	}
	if query := c.QueryParam("q"); query != "" {
		filter.Query = query
		applied = true
	}

	if applied {
		h.store.SetFilter(filter)
	}
}
