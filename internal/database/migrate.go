package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// statements are applied in order at startup. Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS / INSERT IGNORE), so the migrator can run on
// every boot without a version table. Join tables use composite primary keys
// and ON DELETE CASCADE so removing a user, album, genre or song also removes
// the rows that reference it.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id TINYINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		PRIMARY KEY (id),
		UNIQUE KEY uq_roles_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username VARCHAR(100) NOT NULL,
		email VARCHAR(100) NULL,
		password_hash VARCHAR(255) NOT NULL,
		avatar VARCHAR(255) NULL,
		fullname VARCHAR(255) NULL,
		role_id TINYINT UNSIGNED NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		is_staff TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_username (username),
		CONSTRAINT fk_users_role FOREIGN KEY (role_id) REFERENCES roles (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS genres (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(100) NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS songs (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		duration INT UNSIGNED NOT NULL DEFAULT 0,
		url VARCHAR(255) NULL,
		thumbnail VARCHAR(255) NULL,
		play_count BIGINT UNSIGNED NOT NULL DEFAULT 0,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS albums (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		release_date DATE NOT NULL DEFAULT (CURRENT_DATE),
		poster VARCHAR(255) NULL,
		creator_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_albums_creator FOREIGN KEY (creator_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS playlists (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		poster VARCHAR(255) NULL,
		owner_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id),
		CONSTRAINT fk_playlists_owner FOREIGN KEY (owner_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS song_genres (
		song_id BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (song_id, genre_id),
		CONSTRAINT fk_song_genres_song FOREIGN KEY (song_id) REFERENCES songs (id) ON DELETE CASCADE,
		CONSTRAINT fk_song_genres_genre FOREIGN KEY (genre_id) REFERENCES genres (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS song_albums (
		song_id BIGINT UNSIGNED NOT NULL,
		album_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (song_id, album_id),
		CONSTRAINT fk_song_albums_song FOREIGN KEY (song_id) REFERENCES songs (id) ON DELETE CASCADE,
		CONSTRAINT fk_song_albums_album FOREIGN KEY (album_id) REFERENCES albums (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS song_artists (
		song_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (song_id, user_id),
		CONSTRAINT fk_song_artists_song FOREIGN KEY (song_id) REFERENCES songs (id) ON DELETE CASCADE,
		CONSTRAINT fk_song_artists_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS playlist_songs (
		playlist_id BIGINT UNSIGNED NOT NULL,
		song_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (playlist_id, song_id),
		CONSTRAINT fk_playlist_songs_playlist FOREIGN KEY (playlist_id) REFERENCES playlists (id) ON DELETE CASCADE,
		CONSTRAINT fk_playlist_songs_song FOREIGN KEY (song_id) REFERENCES songs (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// Well-known roles. "admin" is provisioned here and never assignable
	// through registration.
	`INSERT IGNORE INTO roles (name) VALUES ('admin'), ('artist'), ('listener')`,
}

// Migrate applies the schema statements in order. It is safe to call on every
// startup.
func Migrate(ctx context.Context, db *sql.DB, log *logrus.Logger) error {
	log.Info("applying database migrations")
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	log.Info("database migrations complete")
	return nil
}
