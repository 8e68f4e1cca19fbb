package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
)

func TestLanding(t *testing.T) {
	songs, users, genres := newSongFixtures()
	albums := newFakeAlbumStore(songs)
	ctx := context.Background()

	_ = users.Create(ctx, &model.User{Username: "artist", RoleID: 2, IsActive: true})
	_ = genres.Create(ctx, &model.Genre{Name: "jazz"})
	_ = genres.Create(ctx, &model.Genre{Name: "rock"})

	// 15 jazz songs with rising play counts; the genre rail caps at 10
	for i := 1; i <= 15; i++ {
		s := &model.Song{Title: fmt.Sprintf("jazz-%02d", i), Duration: 100}
		_ = songs.Create(ctx, s, repository.SongRelations{GenreIDs: []uint64{1}, ArtistIDs: []uint64{1}})
		for j := 0; j < i; j++ {
			_, _ = songs.IncrementPlay(ctx, s.ID)
		}
	}
	for i := 1; i <= 50; i++ {
		_ = albums.Create(ctx, &model.Album{Title: fmt.Sprintf("album-%02d", i), CreatorID: 1})
	}

	h := NewLandingHandler(genres, songs, albums, users)
	c, rec := request(http.MethodGet, "/v1/landing", "")
	if err := h.Landing(c); err != nil {
		t.Fatalf("Landing: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)

	rails, _ := body["playlists_by_genre"].([]any)
	if len(rails) != 2 {
		t.Fatalf("got %d genre rails, want 2", len(rails))
	}
	jazz, _ := rails[0].(map[string]any)
	jazzSongs, _ := jazz["songs"].([]any)
	if len(jazzSongs) != 10 {
		t.Errorf("jazz rail holds %d songs, want 10", len(jazzSongs))
	}
	rock, _ := rails[1].(map[string]any)
	rockSongs, _ := rock["songs"].([]any)
	if len(rockSongs) != 0 {
		t.Errorf("rock rail holds %d songs, want 0", len(rockSongs))
	}

	trending, _ := body["top_trending_songs"].([]any)
	if len(trending) != 10 {
		t.Fatalf("got %d trending songs, want 10", len(trending))
	}
	first, _ := trending[0].(map[string]any)
	if first["title"] != "jazz-15" {
		t.Errorf("top song = %v, want the most played", first["title"])
	}
	prev := first["play_count"].(float64)
	for _, raw := range trending[1:] {
		s, _ := raw.(map[string]any)
		pc := s["play_count"].(float64)
		if pc > prev {
			t.Fatalf("trending not sorted by play_count: %v after %v", pc, prev)
		}
		prev = pc
	}

	random, _ := body["random_albums"].([]any)
	if len(random) != 5 {
		t.Errorf("got %d random albums, want 5", len(random))
	}
	seen := map[any]bool{}
	for _, raw := range random {
		a, _ := raw.(map[string]any)
		if seen[a["id"]] {
			t.Errorf("album %v sampled twice", a["id"])
		}
		seen[a["id"]] = true
	}
}

func TestLandingEmptyCatalog(t *testing.T) {
	songs, users, genres := newSongFixtures()
	albums := newFakeAlbumStore(songs)

	h := NewLandingHandler(genres, songs, albums, users)
	c, rec := request(http.MethodGet, "/v1/landing", "")
	if err := h.Landing(c); err != nil {
		t.Fatalf("Landing: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	for _, key := range []string{"playlists_by_genre", "top_trending_songs", "random_albums"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing %s in empty-catalog payload", key)
		}
	}
}
