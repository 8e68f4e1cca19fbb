package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
)

func newAlbumFixtures(t *testing.T) (*AlbumHandler, *fakeAlbumStore, *fakeSongStore) {
	t.Helper()
	songs, users, _ := newSongFixtures()
	albums := newFakeAlbumStore(songs)

	_ = users.Create(context.Background(), &model.User{Username: "miles", RoleID: 2, IsActive: true})
	_ = albums.Create(context.Background(), &model.Album{Title: "Kind of Blue", CreatorID: 1})
	_ = songs.Create(context.Background(), &model.Song{Title: "So What", Duration: 540}, repository.SongRelations{})

	return NewAlbumHandler(albums, users, songs), albums, songs
}

func TestAlbumAddSongIdempotent(t *testing.T) {
	h, albums, _ := newAlbumFixtures(t)

	for i := 0; i < 2; i++ {
		c, rec := request(http.MethodPost, "/v1/albums/1/add-song", `{"song_id":1}`)
		c.SetParamNames("id")
		c.SetParamValues("1")
		if err := h.AddSong(c); err != nil {
			t.Fatalf("AddSong #%d: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("AddSong #%d status = %d (%s)", i+1, rec.Code, rec.Body.String())
		}
	}
	members, _ := albums.Songs(context.Background(), 1)
	if len(members) != 1 {
		t.Errorf("album holds %d songs, want 1 after duplicate add", len(members))
	}
}

func TestAlbumAddSongUnknownSong(t *testing.T) {
	h, _, _ := newAlbumFixtures(t)

	c, rec := request(http.MethodPost, "/v1/albums/1/add-song", `{"song_id":42}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.AddSong(c); err != nil {
		t.Fatalf("AddSong: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAlbumAddSongMissingBody(t *testing.T) {
	h, _, _ := newAlbumFixtures(t)

	c, rec := request(http.MethodPost, "/v1/albums/1/add-song", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.AddSong(c); err != nil {
		t.Fatalf("AddSong: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if decode(t, rec)["error"] != "song_id is required" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAlbumRemoveSongNotMember(t *testing.T) {
	h, _, _ := newAlbumFixtures(t)

	c, rec := request(http.MethodPost, "/v1/albums/1/remove-song", `{"song_id":1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RemoveSong(c); err != nil {
		t.Fatalf("RemoveSong: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if decode(t, rec)["error"] != "song is not in this album" {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAlbumRemoveSongRoundTrip(t *testing.T) {
	h, albums, _ := newAlbumFixtures(t)
	_ = albums.AddSong(context.Background(), 1, 1)

	c, rec := request(http.MethodPost, "/v1/albums/1/remove-song", `{"song_id":1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RemoveSong(c); err != nil {
		t.Fatalf("RemoveSong: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	members, _ := albums.Songs(context.Background(), 1)
	if len(members) != 0 {
		t.Errorf("album still holds %d songs", len(members))
	}
}

func TestAlbumGetRendersCreatorAndSongs(t *testing.T) {
	h, albums, _ := newAlbumFixtures(t)
	_ = albums.AddSong(context.Background(), 1, 1)

	c, rec := request(http.MethodGet, "/v1/albums/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	creator, _ := body["creator"].(map[string]any)
	if creator["username"] != "miles" {
		t.Errorf("creator = %v", body["creator"])
	}
	tracks, _ := body["songs"].([]any)
	if len(tracks) != 1 {
		t.Errorf("songs = %v", body["songs"])
	}
}

func TestAlbumCreateMissingTitle(t *testing.T) {
	songs, users, _ := newSongFixtures()
	albums := newFakeAlbumStore(songs)
	h := NewAlbumHandler(albums, users, songs)

	c, rec := request(http.MethodPost, "/v1/albums", `{"creator_id":1}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errs, _ := decode(t, rec)["errors"].(map[string]any)
	if _, ok := errs["title"]; !ok {
		t.Errorf("expected title field error, got %v", errs)
	}
}
