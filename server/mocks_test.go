package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/core/events"
	"github.com/Abhi-2104/Auralis/core/streaming"
	"github.com/Abhi-2104/Auralis/model"
	"github.com/Abhi-2104/Auralis/repository"
)

// fakeSongRepo is an in-memory SongRepository.
type fakeSongRepo struct {
	songs     map[string]*model.Song
	searchErr error
	page      *repository.SongPage
}

func newFakeSongRepo(songs ...*model.Song) *fakeSongRepo {
	repo := &fakeSongRepo{songs: make(map[string]*model.Song)}
	for _, s := range songs {
		repo.songs[s.ID] = s
	}
	return repo
}

func (f *fakeSongRepo) CreateSong(song *model.Song) error {
	f.songs[song.ID] = song
	return nil
}

func (f *fakeSongRepo) GetSongByID(id string) (*model.Song, error) {
	song, ok := f.songs[id]
	if !ok {
		return nil, repository.ErrSongNotFound
	}
	return song, nil
}

func (f *fakeSongRepo) SearchSongs(filter repository.SongFilter, limit int, nextToken string) (*repository.SongPage, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.page != nil {
		return f.page, nil
	}
	page := &repository.SongPage{Songs: []*model.Song{}}
	for _, s := range f.songs {
		page.Songs = append(page.Songs, s)
	}
	page.Count = len(page.Songs)
	return page, nil
}

// fakePlaylistRepo is an in-memory PlaylistRepository.
type fakePlaylistRepo struct {
	playlists map[string]*model.Playlist
	appended  map[string][]string
}

func newFakePlaylistRepo(playlists ...*model.Playlist) *fakePlaylistRepo {
	repo := &fakePlaylistRepo{
		playlists: make(map[string]*model.Playlist),
		appended:  make(map[string][]string),
	}
	for _, p := range playlists {
		repo.playlists[p.ID] = p
	}
	return repo
}

func (f *fakePlaylistRepo) CreatePlaylist(playlist *model.Playlist) error {
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistRepo) GetPlaylistByID(id string) (*model.Playlist, error) {
	playlist, ok := f.playlists[id]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	return playlist, nil
}

func (f *fakePlaylistRepo) GetPlaylistsByUserID(userID int64) ([]*model.Playlist, error) {
	out := []*model.Playlist{}
	for _, p := range f.playlists {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) AppendSong(playlistID, songID string) error {
	for _, existing := range f.appended[playlistID] {
		if existing == songID {
			return repository.ErrDuplicateSong
		}
	}
	f.appended[playlistID] = append(f.appended[playlistID], songID)
	return nil
}

// fakeUserRepo is an in-memory UserRepository keyed by username and email.
type fakeUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (f *fakeUserRepo) CreateUser(user *model.User) (int64, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, repository.ErrDuplicateUser
		}
	}
	f.nextID++
	stored := *user
	stored.ID = f.nextID
	f.users[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeUserRepo) GetUserByID(id int64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// fakeSigner stamps out deterministic URLs.
type fakeSigner struct {
	calls int
}

func (f *fakeSigner) PresignedGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	f.calls++
	return fmt.Sprintf("https://store.example/%s/%s?sig=test", bucket, key), nil
}

// newTestHandler wires an APIHandler over the given fakes with a cacheless
// issuer and a fresh event hub.
func newTestHandler(songs *fakeSongRepo, playlists *fakePlaylistRepo, users *fakeUserRepo) *APIHandler {
	issuer := streaming.NewIssuer(songs, &fakeSigner{}, nil, 900*time.Second)
	return NewAPIHandler(songs, playlists, users, issuer, events.NewHub(), &config.Config{})
}
