package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// MediaService holds the media library and its playlists. Playlist entries
// are denormalized snapshots of library items: deleting a library item
// cascades out of every playlist, but editing one does not rewrite copies
// already inside a playlist.
type MediaService struct {
	mu        sync.RWMutex
	items     []entities.MediaItem
	playlists []entities.Playlist
	filter    ports.MediaFilter
	repo      ports.MediaRepository
	logger    *logger.Logger
	notifier  *notifier
	seed      bool
}

// NewMediaService creates a new media service
func NewMediaService(repo ports.MediaRepository, appLogger *logger.Logger, seed bool) *MediaService {
	return &MediaService{
		repo:     repo,
		logger:   appLogger.WithComponent("media_store"),
		notifier: newNotifier(),
		seed:     seed,
	}
}

// Load reads both sub-entries of the media library. Missing or malformed
// documents yield empty collections; an empty library with seeding enabled
// bootstraps sample records once.
func (s *MediaService) Load(ctx context.Context) error {
	items, err := s.repo.LoadItems(ctx)
	if err != nil {
		if !repository.IsDecodeError(err) {
			return fmt.Errorf("load media items: %w", err)
		}
		s.logger.Warnw("Media item document malformed, starting empty", "error", err.Error())
		items = nil
	}

	playlists, err := s.repo.LoadPlaylists(ctx)
	if err != nil {
		if !repository.IsDecodeError(err) {
			return fmt.Errorf("load playlists: %w", err)
		}
		s.logger.Warnw("Playlist document malformed, starting empty", "error", err.Error())
		playlists = nil
	}

	s.mu.Lock()
	s.items = items
	s.playlists = playlists
	s.mu.Unlock()

	if len(items) == 0 && s.seed {
		return s.seedSamples(ctx)
	}
	return nil
}

func (s *MediaService) seedSamples(ctx context.Context) error {
	s.mu.Lock()
	s.items = sampleMediaItems()
	itemSnapshot := s.itemSnapshotLocked()
	s.mu.Unlock()

	if err := s.repo.SaveItems(ctx, itemSnapshot); err != nil {
		return fmt.Errorf("persist seeded media items: %w", err)
	}

	s.logger.Infow("Seeded sample media items", "count", len(itemSnapshot))
	s.notifier.notify()
	return nil
}

// Items returns the full item collection in insertion order
func (s *MediaService) Items() []entities.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemSnapshotLocked()
}

// Filtered returns the items narrowed by the current filter state:
// optional type, optional category, and a case-insensitive substring query
// over title, description and category.
func (s *MediaService) Filtered() []entities.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.MediaItem, 0, len(s.items))
	for _, item := range s.items {
		if s.filter.Type != nil && item.Type != *s.filter.Type {
			continue
		}
		if s.filter.Category != nil && item.Category != *s.filter.Category {
			continue
		}
		if !matchesQuery(s.filter.Query, item.Title, item.Description, item.Category) {
			continue
		}
		result = append(result, item)
	}
	return result
}

// GroupedByType partitions the filtered view by media type. Group keys keep
// the insertion order of first appearance.
func (s *MediaService) GroupedByType() ([]entities.MediaType, map[entities.MediaType][]entities.MediaItem) {
	filtered := s.Filtered()

	var order []entities.MediaType
	groups := make(map[entities.MediaType][]entities.MediaItem)
	for _, item := range filtered {
		if _, ok := groups[item.Type]; !ok {
			order = append(order, item.Type)
		}
		groups[item.Type] = append(groups[item.Type], item)
	}
	return order, groups
}

// Favorites returns all items with the favorite flag set
func (s *MediaService) Favorites() []entities.MediaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []entities.MediaItem
	for _, item := range s.items {
		if item.IsFavorite {
			result = append(result, item)
		}
	}
	return result
}

// AddItem appends a new media item and persists the collection
func (s *MediaService) AddItem(ctx context.Context, req ports.CreateMediaItemRequest) (*entities.MediaItem, error) {
	item := entities.MediaItem{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Category:    req.Category,
		Rating:      req.Rating,
		Icon:        req.Icon,
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	snapshot := s.itemSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("media_items", "add", item.ID.String())
	s.notifier.notify()

	if err := s.repo.SaveItems(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("media_items", err)
		return &item, fmt.Errorf("persist media items: %w", err)
	}
	return &item, nil
}

// UpdateItem replaces fields of the item with matching identity. Copies of
// the item already inside playlists keep their old snapshot.
func (s *MediaService) UpdateItem(ctx context.Context, id uuid.UUID, req ports.UpdateMediaItemRequest) (*entities.MediaItem, error) {
	s.mu.Lock()
	idx := s.itemIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrMediaItemNotFound
	}

	item := &s.items[idx]
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Rating != nil {
		item.Rating = *req.Rating
	}
	if req.Icon != nil {
		item.Icon = *req.Icon
	}
	updated := *item
	snapshot := s.itemSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("media_items", "update", id.String())
	s.notifier.notify()

	if err := s.repo.SaveItems(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("media_items", err)
		return &updated, fmt.Errorf("persist media items: %w", err)
	}
	return &updated, nil
}

// DeleteItem removes the item with matching identity and cascades the same
// identity out of every playlist.
func (s *MediaService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.itemIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return entities.ErrMediaItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	playlistsChanged := false
	for i := range s.playlists {
		if s.playlists[i].RemoveItem(id) {
			playlistsChanged = true
		}
	}

	itemSnapshot := s.itemSnapshotLocked()
	playlistSnapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("media_items", "delete", id.String())
	s.notifier.notify()

	if err := s.repo.SaveItems(ctx, itemSnapshot); err != nil {
		s.logger.LogPersistFailure("media_items", err)
		return fmt.Errorf("persist media items: %w", err)
	}
	if playlistsChanged {
		if err := s.repo.SavePlaylists(ctx, playlistSnapshot); err != nil {
			s.logger.LogPersistFailure("playlists", err)
			return fmt.Errorf("persist playlists: %w", err)
		}
	}
	return nil
}

// ToggleFavorite flips the favorite flag of the item with matching identity
func (s *MediaService) ToggleFavorite(ctx context.Context, id uuid.UUID) (*entities.MediaItem, error) {
	s.mu.Lock()
	idx := s.itemIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrMediaItemNotFound
	}
	s.items[idx].IsFavorite = !s.items[idx].IsFavorite
	updated := s.items[idx]
	snapshot := s.itemSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("media_items", "toggle_favorite", id.String())
	s.notifier.notify()

	if err := s.repo.SaveItems(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("media_items", err)
		return &updated, fmt.Errorf("persist media items: %w", err)
	}
	return &updated, nil
}

// Playlists returns the playlist collection in insertion order
func (s *MediaService) Playlists() []entities.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlistSnapshotLocked()
}

// CreatePlaylist appends a new empty playlist
func (s *MediaService) CreatePlaylist(ctx context.Context, req ports.CreatePlaylistRequest) (*entities.Playlist, error) {
	playlist := entities.Playlist{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Items:       []entities.MediaItem{},
		ColorTheme:  req.ColorTheme,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.playlists = append(s.playlists, playlist)
	snapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("playlists", "create", playlist.ID.String())
	s.notifier.notify()

	if err := s.repo.SavePlaylists(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("playlists", err)
		return &playlist, fmt.Errorf("persist playlists: %w", err)
	}
	return &playlist, nil
}

// UpdatePlaylist replaces metadata fields of the playlist with matching
// identity. The item list is only mutated through Add/RemoveFromPlaylist.
func (s *MediaService) UpdatePlaylist(ctx context.Context, id uuid.UUID, req ports.UpdatePlaylistRequest) (*entities.Playlist, error) {
	s.mu.Lock()
	idx := s.playlistIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrPlaylistNotFound
	}

	playlist := &s.playlists[idx]
	if req.Name != nil {
		playlist.Name = *req.Name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.ColorTheme != nil {
		playlist.ColorTheme = *req.ColorTheme
	}
	updated := clonePlaylist(*playlist)
	snapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("playlists", "update", id.String())
	s.notifier.notify()

	if err := s.repo.SavePlaylists(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("playlists", err)
		return &updated, fmt.Errorf("persist playlists: %w", err)
	}
	return &updated, nil
}

// DeletePlaylist removes the playlist with matching identity
func (s *MediaService) DeletePlaylist(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := s.playlistIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return entities.ErrPlaylistNotFound
	}
	s.playlists = append(s.playlists[:idx], s.playlists[idx+1:]...)
	snapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("playlists", "delete", id.String())
	s.notifier.notify()

	if err := s.repo.SavePlaylists(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("playlists", err)
		return fmt.Errorf("persist playlists: %w", err)
	}
	return nil
}

// AddToPlaylist inserts a snapshot of the library item into the playlist.
// An item appears in a playlist at most once; re-adding is a successful
// no-op that leaves one copy.
func (s *MediaService) AddToPlaylist(ctx context.Context, playlistID, itemID uuid.UUID) (*entities.Playlist, error) {
	s.mu.Lock()
	pIdx := s.playlistIndexLocked(playlistID)
	if pIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrPlaylistNotFound
	}
	iIdx := s.itemIndexLocked(itemID)
	if iIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrMediaItemNotFound
	}

	playlist := &s.playlists[pIdx]
	if playlist.ContainsItem(itemID) {
		updated := clonePlaylist(*playlist)
		s.mu.Unlock()
		return &updated, nil
	}
	playlist.Items = append(playlist.Items, s.items[iIdx])
	updated := clonePlaylist(*playlist)
	snapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("playlists", "add_item", itemID.String())
	s.notifier.notify()

	if err := s.repo.SavePlaylists(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("playlists", err)
		return &updated, fmt.Errorf("persist playlists: %w", err)
	}
	return &updated, nil
}

// RemoveFromPlaylist drops the item with matching identity from the playlist
func (s *MediaService) RemoveFromPlaylist(ctx context.Context, playlistID, itemID uuid.UUID) (*entities.Playlist, error) {
	s.mu.Lock()
	pIdx := s.playlistIndexLocked(playlistID)
	if pIdx < 0 {
		s.mu.Unlock()
		return nil, entities.ErrPlaylistNotFound
	}
	if !s.playlists[pIdx].RemoveItem(itemID) {
		s.mu.Unlock()
		return nil, entities.ErrMediaItemNotFound
	}
	updated := clonePlaylist(s.playlists[pIdx])
	snapshot := s.playlistSnapshotLocked()
	s.mu.Unlock()

	s.logger.LogStoreMutation("playlists", "remove_item", itemID.String())
	s.notifier.notify()

	if err := s.repo.SavePlaylists(ctx, snapshot); err != nil {
		s.logger.LogPersistFailure("playlists", err)
		return &updated, fmt.Errorf("persist playlists: %w", err)
	}
	return &updated, nil
}

// SetFilter replaces the current filter state
func (s *MediaService) SetFilter(filter ports.MediaFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.notifier.notify()
}

// ClearFilters resets all filter fields to "no filter"
func (s *MediaService) ClearFilters() {
	s.SetFilter(ports.MediaFilter{})
}

// Subscribe registers a change listener and returns an unsubscribe func
func (s *MediaService) Subscribe(fn func()) func() {
	return s.notifier.subscribe(fn)
}

func (s *MediaService) itemIndexLocked(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MediaService) playlistIndexLocked(id uuid.UUID) int {
	for i := range s.playlists {
		if s.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MediaService) itemSnapshotLocked() []entities.MediaItem {
	snapshot := make([]entities.MediaItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

func (s *MediaService) playlistSnapshotLocked() []entities.Playlist {
	snapshot := make([]entities.Playlist, len(s.playlists))
	for i := range s.playlists {
		snapshot[i] = clonePlaylist(s.playlists[i])
	}
	return snapshot
}

func clonePlaylist(p entities.Playlist) entities.Playlist {
	items := make([]entities.MediaItem, len(p.Items))
	copy(items, p.Items)
	p.Items = items
	return p
}
