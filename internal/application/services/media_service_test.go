package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/horizonapp/core/internal/adapters/repository"
	"github.com/horizonapp/core/internal/application/services"
	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

func newMediaService(t *testing.T, seed bool) *services.MediaService {
	t.Helper()

	svc := services.NewMediaService(repository.NewMediaRepository(newTestStore(t)), logger.NewNop(), seed)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load media: %v", err)
	}
	return svc
}

func addItem(t *testing.T, svc *services.MediaService, title string, mediaType entities.MediaType) *entities.MediaItem {
	t.Helper()

	item, err := svc.AddItem(context.Background(), ports.CreateMediaItemRequest{
		Title: title,
		Type:  mediaType,
	})
	if err != nil {
		t.Fatalf("add item %q: %v", title, err)
	}
	return item
}

func createPlaylist(t *testing.T, svc *services.MediaService, name string) *entities.Playlist {
	t.Helper()

	playlist, err := svc.CreatePlaylist(context.Background(), ports.CreatePlaylistRequest{Name: name})
	if err != nil {
		t.Fatalf("create playlist %q: %v", name, err)
	}
	return playlist
}

func TestMediaToggleFavoriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newMediaService(t, false)
	item := addItem(t, svc, "Nocturne", entities.MediaTypeMusic)

	toggled, err := svc.ToggleFavorite(ctx, item.ID)
	if err != nil {
		t.Fatalf("toggle favorite: %v", err)
	}
	if !toggled.IsFavorite {
		t.Fatal("expected favorite after first toggle")
	}
	if got := len(svc.Favorites()); got != 1 {
		t.Fatalf("expected 1 favorite, got %d", got)
	}

	toggled, err = svc.ToggleFavorite(ctx, item.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if toggled.IsFavorite {
		t.Fatal("expected second toggle to restore the original value")
	}
	if got := len(svc.Favorites()); got != 0 {
		t.Fatalf("expected no favorites, got %d", got)
	}
}

func TestMediaAddToPlaylistIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newMediaService(t, false)
	item := addItem(t, svc, "Coastal Timelapse", entities.MediaTypeVideo)
	playlist := createPlaylist(t, svc, "Evening")

	first, err := svc.AddToPlaylist(ctx, playlist.ID, item.ID)
	if err != nil {
		t.Fatalf("add to playlist: %v", err)
	}
	if len(first.Items) != 1 {
		t.Fatalf("expected 1 playlist entry, got %d", len(first.Items))
	}

	second, err := svc.AddToPlaylist(ctx, playlist.ID, item.ID)
	if err != nil {
		t.Fatalf("re-add must succeed: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("re-add must leave exactly one copy, got %d", len(second.Items))
	}
}

func TestMediaDeleteItemCascadesFromPlaylists(t *testing.T) {
	ctx := context.Background()
	svc := newMediaService(t, false)
	item := addItem(t, svc, "Composition VIII", entities.MediaTypeArt)
	keeper := addItem(t, svc, "Signals & Noise", entities.MediaTypePodcast)

	first := createPlaylist(t, svc, "Gallery")
	second := createPlaylist(t, svc, "Mixed")
	for _, p := range []*entities.Playlist{first, second} {
		if _, err := svc.AddToPlaylist(ctx, p.ID, item.ID); err != nil {
			t.Fatalf("add to playlist: %v", err)
		}
	}
	if _, err := svc.AddToPlaylist(ctx, second.ID, keeper.ID); err != nil {
		t.Fatalf("add keeper: %v", err)
	}

	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	for _, p := range svc.Playlists() {
		if p.ContainsItem(item.ID) {
			t.Fatalf("playlist %q still holds the deleted item", p.Name)
		}
	}
	playlists := svc.Playlists()
	if !playlists[1].ContainsItem(keeper.ID) {
		t.Fatal("cascade must not remove other items")
	}
}

func TestMediaDeletedItemSnapshotSurvivesInPlaylistUpdates(t *testing.T) {
	ctx := context.Background()
	svc := newMediaService(t, false)
	item := addItem(t, svc, "Original Title", entities.MediaTypeMusic)
	playlist := createPlaylist(t, svc, "Snapshots")

	if _, err := svc.AddToPlaylist(ctx, playlist.ID, item.ID); err != nil {
		t.Fatalf("add to playlist: %v", err)
	}

	title := "Renamed Title"
	if _, err := svc.UpdateItem(ctx, item.ID, ports.UpdateMediaItemRequest{Title: &title}); err != nil {
		t.Fatalf("update item: %v", err)
	}

	playlists := svc.Playlists()
	if got := playlists[0].Items[0].Title; got != "Original Title" {
		t.Fatalf("playlist entry must keep its snapshot, got %q", got)
	}
}

func TestMediaRemoveFromPlaylist(t *testing.T) {
	ctx := context.Background()
	svc := newMediaService(t, false)
	item := addItem(t, svc, "Track", entities.MediaTypeMusic)
	playlist := createPlaylist(t, svc, "Short")

	if _, err := svc.AddToPlaylist(ctx, playlist.ID, item.ID); err != nil {
		t.Fatalf("add to playlist: %v", err)
	}
	updated, err := svc.RemoveFromPlaylist(ctx, playlist.ID, item.ID)
	if err != nil {
		t.Fatalf("remove from playlist: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("expected empty playlist, got %d entries", len(updated.Items))
	}

	if _, err := svc.RemoveFromPlaylist(ctx, playlist.ID, item.ID); !errors.Is(err, entities.ErrMediaItemNotFound) {
		t.Fatalf("expected ErrMediaItemNotFound, got %v", err)
	}
	if _, err := svc.RemoveFromPlaylist(ctx, uuid.New(), item.ID); !errors.Is(err, entities.ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestMediaFilteredByTypeAndQuery(t *testing.T) {
	svc := newMediaService(t, false)
	addItem(t, svc, "Nocturne in E flat", entities.MediaTypeMusic)
	addItem(t, svc, "Dawn Timelapse", entities.MediaTypeVideo)
	addItem(t, svc, "Night Sessions", entities.MediaTypeMusic)

	music := entities.MediaTypeMusic
	svc.SetFilter(ports.MediaFilter{Type: &music})
	if got := len(svc.Filtered()); got != 2 {
		t.Fatalf("expected 2 music items, got %d", got)
	}

	svc.SetFilter(ports.MediaFilter{Type: &music, Query: "nocturne"})
	filtered := svc.Filtered()
	if len(filtered) != 1 || filtered[0].Title != "Nocturne in E flat" {
		t.Fatalf("unexpected filter result: %+v", filtered)
	}

	svc.ClearFilters()
	if got := len(svc.Filtered()); got != 3 {
		t.Fatalf("cleared filter must yield the full collection, got %d", got)
	}
}

func TestMediaGroupedByTypeOrder(t *testing.T) {
	svc := newMediaService(t, false)
	addItem(t, svc, "A", entities.MediaTypeVideo)
	addItem(t, svc, "B", entities.MediaTypeMusic)
	addItem(t, svc, "C", entities.MediaTypeVideo)

	order, groups := svc.GroupedByType()
	if len(order) != 2 || order[0] != entities.MediaTypeVideo {
		t.Fatalf("group keys must keep first-appearance order, got %v", order)
	}
	if len(groups[entities.MediaTypeVideo]) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(groups[entities.MediaTypeVideo]))
	}
}

func TestMediaSeedOnEmpty(t *testing.T) {
	svc := newMediaService(t, true)
	if got := len(svc.Items()); got != 4 {
		t.Fatalf("expected 4 seeded items, got %d", got)
	}
	if got := len(svc.Playlists()); got != 0 {
		t.Fatalf("seeding must not create playlists, got %d", got)
	}
}
