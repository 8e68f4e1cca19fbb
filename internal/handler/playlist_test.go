package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
)

func newPlaylistFixtures(t *testing.T) (*PlaylistHandler, *fakePlaylistStore) {
	t.Helper()
	songs, users, _ := newSongFixtures()
	playlists := newFakePlaylistStore(songs)

	ctx := context.Background()
	_ = users.Create(ctx, &model.User{Username: "jdoe", RoleID: 3, IsActive: true})
	_ = songs.Create(ctx, &model.Song{Title: "One", Duration: 100}, repository.SongRelations{})
	_ = songs.Create(ctx, &model.Song{Title: "Two", Duration: 200}, repository.SongRelations{})

	return NewPlaylistHandler(playlists, users, songs), playlists
}

func TestPlaylistCreateWithSongs(t *testing.T) {
	h, playlists := newPlaylistFixtures(t)

	c, rec := request(http.MethodPost, "/v1/playlists", `{"name":"Favs","user_id":1,"song_id":[1,2]}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	owner, _ := body["user"].(map[string]any)
	if owner["username"] != "jdoe" {
		t.Errorf("owner = %v", body["user"])
	}
	tracks, _ := body["songs"].([]any)
	if len(tracks) != 2 {
		t.Errorf("songs = %v", body["songs"])
	}

	members, _ := playlists.Songs(context.Background(), 1)
	if len(members) != 2 {
		t.Errorf("stored %d members, want 2", len(members))
	}
}

func TestPlaylistCreateMissingOwner(t *testing.T) {
	h, _ := newPlaylistFixtures(t)

	c, rec := request(http.MethodPost, "/v1/playlists", `{"name":"Favs"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	errs, _ := decode(t, rec)["errors"].(map[string]any)
	if _, ok := errs["user_id"]; !ok {
		t.Errorf("expected user_id error, got %v", errs)
	}
}

func TestPlaylistCreateUnknownSong(t *testing.T) {
	h, playlists := newPlaylistFixtures(t)

	c, rec := request(http.MethodPost, "/v1/playlists", `{"name":"Favs","user_id":1,"song_id":[1,99]}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	errs, _ := decode(t, rec)["errors"].(map[string]any)
	if _, ok := errs["song_id"]; !ok {
		t.Errorf("expected song_id error, got %v", errs)
	}
	if _, err := playlists.GetByID(context.Background(), 1); err == nil {
		t.Error("playlist persisted despite unknown song id")
	}
}

func TestPlaylistPatchKeepsMembership(t *testing.T) {
	h, playlists := newPlaylistFixtures(t)
	_ = playlists.Create(context.Background(), &model.Playlist{Name: "Favs", OwnerID: 1}, []uint64{1, 2})

	c, rec := request(http.MethodPatch, "/v1/playlists/1", `{"name":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Patch(c); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["name"] != "Renamed" {
		t.Errorf("name = %v", body["name"])
	}
	tracks, _ := body["songs"].([]any)
	if len(tracks) != 2 {
		t.Errorf("membership changed by scalar patch: %v", body["songs"])
	}
}

func TestPlaylistUpdateRewritesMembership(t *testing.T) {
	h, playlists := newPlaylistFixtures(t)
	_ = playlists.Create(context.Background(), &model.Playlist{Name: "Favs", OwnerID: 1}, []uint64{1, 2})

	c, rec := request(http.MethodPut, "/v1/playlists/1", `{"name":"Favs","user_id":1,"song_id":[2]}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	members, _ := playlists.Songs(context.Background(), 1)
	if len(members) != 1 || members[0].ID != 2 {
		t.Errorf("members = %+v, want just song 2", members)
	}
}

func TestPlaylistRemoveSongNotMember(t *testing.T) {
	h, playlists := newPlaylistFixtures(t)
	_ = playlists.Create(context.Background(), &model.Playlist{Name: "Favs", OwnerID: 1}, nil)

	c, rec := request(http.MethodPost, "/v1/playlists/1/remove-song", `{"song_id":1}`)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.RemoveSong(c); err != nil {
		t.Fatalf("RemoveSong: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if decode(t, rec)["error"] != "song is not in this playlist" {
		t.Errorf("body = %s", rec.Body.String())
	}
}
