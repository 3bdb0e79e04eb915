package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const changeChannel = "hotelops:doc-changes"

// documentRow is the single relational table behind the document store.
type documentRow struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"uniqueIndex:idx_collection_doc;size:64"`
	DocID      string `gorm:"uniqueIndex:idx_collection_doc;size:64"`
	Data       datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type changeNotice struct {
	Instance   string `json:"instance"`
	Collection string `json:"collection"`
}

type gormSub struct {
	filters    []Filter
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

// GormStore persists documents in MySQL through GORM and fans change
// notifications out to subscribers. With a redis client attached,
// changes made by other instances are picked up over pub/sub; without
// one the fan-out is in-process only.
type GormStore struct {
	db       *gorm.DB
	rdb      *redis.Client
	log      *logrus.Logger
	instance string

	mu      sync.Mutex
	subs    map[string]map[int]*gormSub
	nextSub int

	cancel context.CancelFunc
}

func NewGormStore(db *gorm.DB, rdb *redis.Client, log *logrus.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, err
	}

	s := &GormStore{
		db:       db,
		rdb:      rdb,
		log:      log,
		instance: uuid.NewString(),
		subs:     make(map[string]map[int]*gormSub),
	}

	if rdb != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.listenRemoteChanges(ctx)
	}
	return s, nil
}

// Close stops the remote-change listener. Local subscriptions keep
// their last-known snapshots.
func (s *GormStore) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *GormStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	row := documentRow{Collection: collection, DocID: id, Data: datatypes.JSON(payload)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}

	s.publishChange(collection)
	return id, nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, partial Document) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		if err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		data := Document{}
		if len(row.Data) > 0 {
			if err := json.Unmarshal(row.Data, &data); err != nil {
				return err
			}
		}
		for k, v := range partial {
			data[k] = v
		}

		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		return tx.Model(&row).Update("data", datatypes.JSON(payload)).Error
	})
	if err != nil {
		return err
	}

	s.publishChange(collection)
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	res := s.db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).Delete(&documentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publishChange(collection)
	return nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (Doc, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Doc{}, ErrNotFound
	}
	if err != nil {
		return Doc{}, err
	}
	return rowToDoc(row)
}

func (s *GormStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	var rows []documentRow
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	var docs []Doc
	for _, row := range rows {
		doc, err := rowToDoc(row)
		if err != nil {
			s.log.WithError(err).WithField("doc_id", row.DocID).Warn("skipping undecodable document")
			continue
		}
		if matches(doc.Data, filters) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *GormStore) Subscribe(collection string, filters []Filter, onSnapshot SnapshotFunc, onError ErrorFunc) func() {
	s.mu.Lock()
	sub := &gormSub{filters: filters, onSnapshot: onSnapshot, onError: onError}
	id := s.nextSub
	s.nextSub++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*gormSub)
	}
	s.subs[collection][id] = sub
	s.mu.Unlock()

	s.deliver(collection, sub)

	return func() {
		s.mu.Lock()
		delete(s.subs[collection], id)
		s.mu.Unlock()
	}
}

func (s *GormStore) deliver(collection string, sub *gormSub) {
	docs, err := s.Query(context.Background(), collection, sub.filters...)
	if err != nil {
		if sub.onError != nil {
			sub.onError(err)
		}
		return
	}
	sub.onSnapshot(docs)
}

func (s *GormStore) notifyLocal(collection string) {
	s.mu.Lock()
	var pending []*gormSub
	for _, sub := range s.subs[collection] {
		pending = append(pending, sub)
	}
	s.mu.Unlock()

	for _, sub := range pending {
		s.deliver(collection, sub)
	}
}

func (s *GormStore) publishChange(collection string) {
	s.notifyLocal(collection)

	if s.rdb == nil {
		return
	}
	payload, _ := json.Marshal(changeNotice{Instance: s.instance, Collection: collection})
	if err := s.rdb.Publish(context.Background(), changeChannel, payload).Err(); err != nil {
		s.log.WithError(err).Warn("failed to publish change notice")
	}
}

func (s *GormStore) listenRemoteChanges(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, changeChannel)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.WithError(err).Warn("change-feed receive failed, retrying")
			time.Sleep(time.Second)
			continue
		}

		var notice changeNotice
		if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
			s.log.WithError(err).Warn("discarding malformed change notice")
			continue
		}
		if notice.Instance == s.instance {
			continue
		}
		s.notifyLocal(notice.Collection)
	}
}

func rowToDoc(row documentRow) (Doc, error) {
	data := Document{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return Doc{}, err
		}
	}
	return Doc{ID: row.DocID, Data: data}, nil
}
