package storage

import (
	"database/sql"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// Store SQLite持久层
type Store struct {
	db *sql.DB
}

// Open 打开数据库并完成初始化
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite在并发写入下需要串行化
	db.SetMaxOpenConns(1)

	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Storage] 数据库已就绪: %s", dbPath)
	return &Store{db: db}, nil
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}

// DB 返回底层连接，供健康检查使用
func (s *Store) DB() *sql.DB {
	return s.db
}

func InitDB(db *sql.DB) error {
	// 优化SQLite配置
	_, err := db.Exec(`
        PRAGMA journal_mode = WAL;
        PRAGMA synchronous = NORMAL;
        PRAGMA cache_size = 1000000;
        PRAGMA temp_store = MEMORY;
        PRAGMA foreign_keys = ON;
    `)
	if err != nil {
		return err
	}

	return initTables(db)
}

func initTables(db *sql.DB) error {
	// 用户表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            uid TEXT PRIMARY KEY,
            email TEXT,
            display_name TEXT,
            photo_url TEXT,
            age INTEGER,
            gender TEXT,
            ethnicity TEXT,
            height INTEGER,
            weight INTEGER,
            diet TEXT,
            tier TEXT NOT NULL DEFAULT 'free',
            scans_today INTEGER NOT NULL DEFAULT 0,
            last_scan_date TEXT,
            current_streak INTEGER NOT NULL DEFAULT 0,
            longest_streak INTEGER NOT NULL DEFAULT 0,
            streak_last_scan_date TEXT,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	// 扫描记录表，JSON列存放列表与完整分析
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS scans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id TEXT NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            created_at DATETIME NOT NULL,
            score INTEGER NOT NULL,
            skin_type TEXT,
            skin_tone TEXT,
            condition TEXT,
            visible_issues TEXT NOT NULL DEFAULT '[]',
            recommendations TEXT NOT NULL DEFAULT '[]',
            image_hash TEXT,
            full_analysis TEXT
        )
    `)
	if err != nil {
		return err
	}

	// 食物记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS food_logs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id TEXT NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
            logged_at DATETIME NOT NULL,
            food_name TEXT NOT NULL,
            category TEXT NOT NULL,
            health_score INTEGER NOT NULL,
            calories INTEGER NOT NULL,
            macros TEXT NOT NULL DEFAULT '{}',
            nutrients TEXT NOT NULL DEFAULT '{}',
            verdict TEXT,
            consequences TEXT,
            skin_impact TEXT,
            portion TEXT,
            better_alternative TEXT,
            image_hash TEXT
        )
    `)
	if err != nil {
		return err
	}

	// 添加索引
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_scans_user ON scans(user_id, created_at);
        CREATE INDEX IF NOT EXISTS idx_food_logs_user ON food_logs(user_id, logged_at);
    `)
	return err
}
