package handler

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/queue"
	"github.com/orifkhon/music-catalog-api/internal/repository"
)

// In-memory stands-ins for the repositories. They honor the same sentinel
// errors so the handlers behave exactly as they would against MySQL.

type fakeRoleStore struct {
	mu    sync.Mutex
	next  uint8
	roles map[uint8]*model.Role
}

func newFakeRoleStore(names ...string) *fakeRoleStore {
	f := &fakeRoleStore{roles: map[uint8]*model.Role{}}
	for _, n := range names {
		f.next++
		f.roles[f.next] = &model.Role{ID: f.next, Name: n}
	}
	return f
}

func (f *fakeRoleStore) Create(_ context.Context, role *model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	role.ID = f.next
	f.roles[role.ID] = &model.Role{ID: role.ID, Name: role.Name}
	return nil
}

func (f *fakeRoleStore) GetByID(_ context.Context, id uint8) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.roles[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, repository.ErrRoleNotFound
}

func (f *fakeRoleStore) GetByName(_ context.Context, name string) (*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrRoleNotFound
}

func (f *fakeRoleStore) List(_ context.Context) ([]*model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Role, 0, len(f.roles))
	for _, r := range f.roles {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRoleStore) UpdateName(_ context.Context, id uint8, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return repository.ErrRoleNotFound
	}
	r.Name = name
	return nil
}

func (f *fakeRoleStore) Delete(_ context.Context, id uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[id]; !ok {
		return repository.ErrRoleNotFound
	}
	delete(f.roles, id)
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	next  uint64
	users map[uint64]*model.User
	roles *fakeRoleStore
}

func newFakeUserStore(roles *fakeRoleStore) *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}, roles: roles}
}

func (f *fakeUserStore) fillRole(u *model.User) {
	if f.roles == nil {
		return
	}
	if r, err := f.roles.GetByID(context.Background(), u.RoleID); err == nil {
		u.RoleName = r.Name
	}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ex := range f.users {
		if ex.Username == u.Username {
			return repository.ErrUsernameExists
		}
	}
	f.next++
	u.ID = f.next
	f.fillRole(u)
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) list(filter func(*model.User) bool) []*model.User {
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		if filter(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matchSearch(u *model.User, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.Username), s) ||
		strings.Contains(strings.ToLower(u.Fullname), s)
}

func (f *fakeUserStore) List(_ context.Context, search string) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(u *model.User) bool { return matchSearch(u, search) }), nil
}

func (f *fakeUserStore) ListByRole(_ context.Context, roleName, search string) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(u *model.User) bool {
		return u.RoleName == roleName && matchSearch(u, search)
	}), nil
}

func (f *fakeUserStore) Update(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrUserNotFound
	}
	f.fillRole(u)
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeGenreStore struct {
	mu     sync.Mutex
	next   uint64
	genres map[uint64]*model.Genre
}

func newFakeGenreStore() *fakeGenreStore {
	return &fakeGenreStore{genres: map[uint64]*model.Genre{}}
}

func (f *fakeGenreStore) Create(_ context.Context, g *model.Genre) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	g.ID = f.next
	cp := *g
	f.genres[g.ID] = &cp
	return nil
}

func (f *fakeGenreStore) GetByID(_ context.Context, id uint64) (*model.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.genres[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, repository.ErrGenreNotFound
}

func (f *fakeGenreStore) List(_ context.Context) ([]*model.Genre, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Genre, 0, len(f.genres))
	for _, g := range f.genres {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeGenreStore) UpdateName(_ context.Context, id uint64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.genres[id]
	if !ok {
		return repository.ErrGenreNotFound
	}
	g.Name = name
	return nil
}

func (f *fakeGenreStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.genres[id]; !ok {
		return repository.ErrGenreNotFound
	}
	delete(f.genres, id)
	return nil
}

type fakeSongStore struct {
	mu      sync.Mutex
	next    uint64
	songs   map[uint64]*model.Song
	genres  map[uint64][]uint64 // song -> genre ids
	albums  map[uint64][]uint64 // song -> album ids
	artists map[uint64][]uint64 // song -> user ids

	genreStore *fakeGenreStore
	userStore  *fakeUserStore
	albumMeta  map[uint64]*model.Album
}

func newFakeSongStore(genres *fakeGenreStore, users *fakeUserStore) *fakeSongStore {
	return &fakeSongStore{
		songs:      map[uint64]*model.Song{},
		genres:     map[uint64][]uint64{},
		albums:     map[uint64][]uint64{},
		artists:    map[uint64][]uint64{},
		genreStore: genres,
		userStore:  users,
		albumMeta:  map[uint64]*model.Album{},
	}
}

func (f *fakeSongStore) Create(_ context.Context, s *model.Song, rel repository.SongRelations) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkRelations(rel); err != nil {
		return err
	}
	f.next++
	s.ID = f.next
	cp := *s
	f.songs[s.ID] = &cp
	f.applyRelations(s.ID, rel)
	return nil
}

// checkRelations mirrors the link-table foreign keys: every referenced row
// must exist or the write fails with the not-found sentinel.
func (f *fakeSongStore) checkRelations(rel repository.SongRelations) error {
	for _, id := range rel.GenreIDs {
		if _, err := f.genreStore.GetByID(context.Background(), id); err != nil {
			return repository.ErrGenreNotFound
		}
	}
	for _, id := range rel.AlbumIDs {
		if _, ok := f.albumMeta[id]; !ok {
			return repository.ErrAlbumNotFound
		}
	}
	for _, id := range rel.ArtistIDs {
		if _, err := f.userStore.GetByID(context.Background(), id); err != nil {
			return repository.ErrUserNotFound
		}
	}
	return nil
}

func (f *fakeSongStore) applyRelations(id uint64, rel repository.SongRelations) {
	if rel.GenreIDs != nil {
		f.genres[id] = append([]uint64(nil), rel.GenreIDs...)
	}
	if rel.AlbumIDs != nil {
		f.albums[id] = append([]uint64(nil), rel.AlbumIDs...)
	}
	if rel.ArtistIDs != nil {
		f.artists[id] = append([]uint64(nil), rel.ArtistIDs...)
	}
}

func (f *fakeSongStore) Update(_ context.Context, s *model.Song, rel repository.SongRelations) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.songs[s.ID]; !ok {
		return repository.ErrSongNotFound
	}
	if err := f.checkRelations(rel); err != nil {
		return err
	}
	cp := *s
	f.songs[s.ID] = &cp
	f.applyRelations(s.ID, rel)
	return nil
}

func (f *fakeSongStore) GetByID(_ context.Context, id uint64) (*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.songs[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrSongNotFound
}

func (f *fakeSongStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.songs[id]; !ok {
		return repository.ErrSongNotFound
	}
	delete(f.songs, id)
	return nil
}

func (f *fakeSongStore) Search(_ context.Context, term string) ([]*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := strings.ToLower(strings.TrimSpace(term))
	out := make([]*model.Song, 0, len(f.songs))
	for _, s := range f.songs {
		if t == "" || strings.Contains(strings.ToLower(s.Title), t) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSongStore) IncrementPlay(_ context.Context, id uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.songs[id]
	if !ok {
		return 0, repository.ErrSongNotFound
	}
	s.PlayCount++
	return s.PlayCount, nil
}

func (f *fakeSongStore) Genres(ctx context.Context, songID uint64) ([]model.Genre, error) {
	f.mu.Lock()
	ids := append([]uint64(nil), f.genres[songID]...)
	f.mu.Unlock()
	out := make([]model.Genre, 0, len(ids))
	for _, id := range ids {
		if g, err := f.genreStore.GetByID(ctx, id); err == nil {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeSongStore) Albums(_ context.Context, songID uint64) ([]model.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Album, 0, len(f.albums[songID]))
	for _, id := range f.albums[songID] {
		if a, ok := f.albumMeta[id]; ok {
			out = append(out, *a)
		} else {
			out = append(out, model.Album{ID: id})
		}
	}
	return out, nil
}

func (f *fakeSongStore) Artists(ctx context.Context, songID uint64) ([]*model.User, error) {
	f.mu.Lock()
	ids := append([]uint64(nil), f.artists[songID]...)
	f.mu.Unlock()
	out := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := f.userStore.GetByID(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSongStore) ListByArtist(_ context.Context, userID uint64) ([]*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Song{}
	for id, artists := range f.artists {
		for _, a := range artists {
			if a == userID {
				if s, ok := f.songs[id]; ok {
					cp := *s
					out = append(out, &cp)
				}
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSongStore) ListByGenre(_ context.Context, genreID uint64, limit int) ([]*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Song{}
	for id, genres := range f.genres {
		for _, g := range genres {
			if g == genreID {
				if s, ok := f.songs[id]; ok {
					cp := *s
					out = append(out, &cp)
				}
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSongStore) TopByPlayCount(_ context.Context, limit int) ([]*model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Song, 0, len(f.songs))
	for _, s := range f.songs {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayCount != out[j].PlayCount {
			return out[i].PlayCount > out[j].PlayCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAlbumStore struct {
	mu      sync.Mutex
	next    uint64
	albums  map[uint64]*model.Album
	members map[uint64][]uint64 // album -> song ids
	songs   *fakeSongStore
}

func newFakeAlbumStore(songs *fakeSongStore) *fakeAlbumStore {
	return &fakeAlbumStore{albums: map[uint64]*model.Album{}, members: map[uint64][]uint64{}, songs: songs}
}

func (f *fakeAlbumStore) Create(_ context.Context, a *model.Album) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	a.ID = f.next
	cp := *a
	f.albums[a.ID] = &cp
	if f.songs != nil {
		f.songs.albumMeta[a.ID] = &cp
	}
	return nil
}

func (f *fakeAlbumStore) GetByID(_ context.Context, id uint64) (*model.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.albums[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrAlbumNotFound
}

func (f *fakeAlbumStore) List(_ context.Context) ([]*model.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Album, 0, len(f.albums))
	for _, a := range f.albums {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlbumStore) ListByCreator(_ context.Context, creatorID uint64) ([]*model.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Album{}
	for _, a := range f.albums {
		if a.CreatorID == creatorID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlbumStore) ListByIDs(_ context.Context, ids []uint64) ([]*model.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Album{}
	for _, id := range ids {
		if a, ok := f.albums[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAlbumStore) IDs(_ context.Context) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, 0, len(f.albums))
	for id := range f.albums {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (f *fakeAlbumStore) Update(_ context.Context, a *model.Album) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.albums[a.ID]; !ok {
		return repository.ErrAlbumNotFound
	}
	cp := *a
	f.albums[a.ID] = &cp
	return nil
}

func (f *fakeAlbumStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.albums[id]; !ok {
		return repository.ErrAlbumNotFound
	}
	delete(f.albums, id)
	delete(f.members, id)
	return nil
}

func (f *fakeAlbumStore) AddSong(_ context.Context, albumID, songID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.members[albumID] {
		if id == songID {
			return nil // already linked
		}
	}
	f.members[albumID] = append(f.members[albumID], songID)
	return nil
}

func (f *fakeAlbumStore) RemoveSong(_ context.Context, albumID, songID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range f.members[albumID] {
		if id == songID {
			f.members[albumID] = append(f.members[albumID][:i], f.members[albumID][i+1:]...)
			return nil
		}
	}
	return repository.ErrNotMember
}

func (f *fakeAlbumStore) Songs(ctx context.Context, albumID uint64) ([]*model.Song, error) {
	f.mu.Lock()
	ids := append([]uint64(nil), f.members[albumID]...)
	f.mu.Unlock()
	out := make([]*model.Song, 0, len(ids))
	for _, id := range ids {
		if s, err := f.songs.GetByID(ctx, id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePlaylistStore struct {
	mu        sync.Mutex
	next      uint64
	playlists map[uint64]*model.Playlist
	members   map[uint64][]uint64
	songs     *fakeSongStore
}

func newFakePlaylistStore(songs *fakeSongStore) *fakePlaylistStore {
	return &fakePlaylistStore{playlists: map[uint64]*model.Playlist{}, members: map[uint64][]uint64{}, songs: songs}
}

func (f *fakePlaylistStore) Create(_ context.Context, p *model.Playlist, songIDs []uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkSongs(songIDs); err != nil {
		return err
	}
	f.next++
	p.ID = f.next
	cp := *p
	f.playlists[p.ID] = &cp
	if songIDs != nil {
		f.members[p.ID] = append([]uint64(nil), songIDs...)
	}
	return nil
}

// checkSongs mirrors the playlist_songs foreign key on song_id.
func (f *fakePlaylistStore) checkSongs(songIDs []uint64) error {
	for _, sid := range songIDs {
		if _, err := f.songs.GetByID(context.Background(), sid); err != nil {
			return repository.ErrSongNotFound
		}
	}
	return nil
}

func (f *fakePlaylistStore) GetByID(_ context.Context, id uint64) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.playlists[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrPlaylistNotFound
}

func (f *fakePlaylistStore) List(_ context.Context) ([]*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Playlist, 0, len(f.playlists))
	for _, p := range f.playlists {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlaylistStore) Update(_ context.Context, p *model.Playlist, songIDs []uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.playlists[p.ID]; !ok {
		return repository.ErrPlaylistNotFound
	}
	if err := f.checkSongs(songIDs); err != nil {
		return err
	}
	cp := *p
	f.playlists[p.ID] = &cp
	if songIDs != nil {
		f.members[p.ID] = append([]uint64(nil), songIDs...)
	}
	return nil
}

func (f *fakePlaylistStore) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.playlists[id]; !ok {
		return repository.ErrPlaylistNotFound
	}
	delete(f.playlists, id)
	delete(f.members, id)
	return nil
}

func (f *fakePlaylistStore) AddSong(_ context.Context, playlistID, songID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.members[playlistID] {
		if id == songID {
			return nil
		}
	}
	f.members[playlistID] = append(f.members[playlistID], songID)
	return nil
}

func (f *fakePlaylistStore) RemoveSong(_ context.Context, playlistID, songID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, id := range f.members[playlistID] {
		if id == songID {
			f.members[playlistID] = append(f.members[playlistID][:i], f.members[playlistID][i+1:]...)
			return nil
		}
	}
	return repository.ErrNotMember
}

func (f *fakePlaylistStore) Songs(ctx context.Context, playlistID uint64) ([]*model.Song, error) {
	f.mu.Lock()
	ids := append([]uint64(nil), f.members[playlistID]...)
	f.mu.Unlock()
	out := make([]*model.Song, 0, len(ids))
	for _, id := range ids {
		if s, err := f.songs.GetByID(ctx, id); err == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakePublisher records every play event.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.SongPlayedEvent
}

func (f *fakePublisher) PublishSongPlayed(_ context.Context, ev queue.SongPlayedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}
