package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

type tableDDL struct {
	name string
	sql  string
}

// schema is applied in order; later tables reference earlier ones.
var schema = []tableDDL{
	{"users", `CREATE TABLE IF NOT EXISTS users (
  id VARCHAR(36) PRIMARY KEY DEFAULT (UUID()),
  email VARCHAR(255) NOT NULL UNIQUE,
  name VARCHAR(255) NOT NULL,
  avatar_url TEXT,
  role ENUM('admin', 'editor', 'general') NOT NULL DEFAULT 'general',
  google_id VARCHAR(255) NOT NULL UNIQUE,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"blogs", `CREATE TABLE IF NOT EXISTS blogs (
  id VARCHAR(36) PRIMARY KEY DEFAULT (UUID()),
  title VARCHAR(500) NOT NULL,
  content LONGTEXT NOT NULL,
  excerpt TEXT,
  author_id VARCHAR(36) NOT NULL,
  status ENUM('draft', 'published', 'archived') NOT NULL DEFAULT 'draft',
  likes_count INT NOT NULL DEFAULT 0,
  comments_count INT NOT NULL DEFAULT 0,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  INDEX idx_blogs_status_created (status, created_at),
  INDEX idx_blogs_author (author_id),
  CONSTRAINT fk_blogs_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"comments", `CREATE TABLE IF NOT EXISTS comments (
  id VARCHAR(36) PRIMARY KEY DEFAULT (UUID()),
  content TEXT NOT NULL,
  blog_id VARCHAR(36) NOT NULL,
  author_id VARCHAR(36) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  INDEX idx_comments_blog_created (blog_id, created_at),
  CONSTRAINT fk_comments_blog FOREIGN KEY (blog_id) REFERENCES blogs(id) ON DELETE CASCADE,
  CONSTRAINT fk_comments_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"system_logs", `CREATE TABLE IF NOT EXISTS system_logs (
  id VARCHAR(36) PRIMARY KEY,
  timestamp DATETIME(3) NOT NULL,
  level VARCHAR(10) NOT NULL,
  message TEXT,
  request_id VARCHAR(64),
  user_id VARCHAR(36),
  method VARCHAR(10),
  path VARCHAR(255),
  error TEXT,
  extra JSON,
  created_at DATETIME(3),
  INDEX idx_system_logs_timestamp (timestamp),
  INDEX idx_system_logs_level (level),
  INDEX idx_system_logs_request (request_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// EnsureSchema creates any missing tables. It is safe to run on every start.
func EnsureSchema(db *gorm.DB) error {
	for _, t := range schema {
		if err := db.Exec(t.sql).Error; err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
	}
	slog.Info("database schema ready", "tables", len(schema))
	return nil
}
