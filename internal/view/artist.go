package view

import "github.com/orifkhon/music-catalog-api/internal/model"

// Artist is the read shape of the artists resource: a user restricted to the
// artist role, together with their authored songs and albums. Both lists are
// computed relationally at response time, nothing is stored per artist.
type Artist struct {
	ID       uint64  `json:"id"`
	Avatar   string  `json:"avatar"`
	Username string  `json:"username"`
	Fullname string  `json:"fullname"`
	Albums   []Album `json:"albums"`
	Songs    []Song  `json:"songs"`
}

// NewArtist builds the artist shape from a loaded user and the views of
// their albums and songs.
func NewArtist(u *model.User, albums []Album, songs []Song) Artist {
	if albums == nil {
		albums = []Album{}
	}
	if songs == nil {
		songs = []Song{}
	}
	return Artist{
		ID:       u.ID,
		Avatar:   u.Avatar,
		Username: u.Username,
		Fullname: u.Fullname,
		Albums:   albums,
		Songs:    songs,
	}
}
