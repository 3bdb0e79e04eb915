package config

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	sqlmysql "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotelops-backend/models"
	"hotelops-backend/store"
	"hotelops-backend/utils"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	cfg := sqlmysql.NewConfig()
	cfg.User = envOrDefault("DB_USER", "root")
	cfg.Passwd = envOrDefault("DB_PASS", "")
	cfg.Net = "tcp"
	cfg.Addr = envOrDefault("DB_HOST", "127.0.0.1") + ":" + envOrDefault("DB_PORT", "3306")
	cfg.DBName = envOrDefault("DB_NAME", "hotelops_db")
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN(), nil
}

// ConnectDatabase opens the MySQL connection backing the document
// store.
func ConnectDatabase() (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
		},
	)

	return gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
}

// NewRedisClient connects the optional cross-instance change feed.
// Returns nil when REDIS_ADDR is unset; the store then degrades to
// in-process fan-out.
func NewRedisClient() (*redis.Client, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	db := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		db = parsed
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// AdminSecretChecker builds the gate's secret validator. Prefers a
// bcrypt hash (ADMIN_SECRET_HASH); falls back to constant comparison
// against a raw ADMIN_SECRET.
func AdminSecretChecker() (func(string) bool, error) {
	if hash := strings.TrimSpace(os.Getenv("ADMIN_SECRET_HASH")); hash != "" {
		return func(candidate string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
		}, nil
	}

	secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("ADMIN_SECRET or ADMIN_SECRET_HASH must be set")
	}
	return func(candidate string) bool { return candidate == secret }, nil
}

// SeedDocuments populates the room board and a default staff account
// on first run. Idempotent: nothing is written when the collections
// already hold data.
func SeedDocuments(ctx context.Context, st store.Store) error {
	rooms, err := st.Query(ctx, models.RoomsCollection)
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		for _, section := range utils.FloorSections {
			for n := section.Low; n <= section.High; n++ {
				room := models.Room{
					RoomNumber: strconv.Itoa(n),
					Status:     models.OccupancyEmpty,
					Clean:      models.HousekeepingDirty,
				}
				if _, err := st.Create(ctx, models.RoomsCollection, room.Doc()); err != nil {
					return fmt.Errorf("seed room %d: %w", n, err)
				}
			}
		}
		log.Println("rooms seeded")
	}

	staff, err := st.Query(ctx, models.StaffCollection)
	if err != nil {
		return err
	}
	if len(staff) == 0 {
		password := envOrDefault("DEFAULT_STAFF_PASSWORD", "staff123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		profile := models.StaffProfile{
			Email:        "staff@hotel.local",
			Name:         "Front Desk",
			PasswordHash: string(hash),
		}
		if _, err := st.Create(ctx, models.StaffCollection, profile.Doc()); err != nil {
			return fmt.Errorf("seed default staff: %w", err)
		}
		log.Println("default staff seeded")
	}

	return nil
}
