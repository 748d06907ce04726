package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"securechat/internal/models"
	"securechat/internal/storage"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	List() ([]models.Message, error)
	Get(messageID string) (models.Message, error)
	Append(msg models.Message) error
	Update(msg models.Message) error
	ReplaceAll(msgs []models.Message) error
}

// MessageRepo is a key-value backed MessageRepository.
type MessageRepo struct {
	store storage.Store
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(store storage.Store) *MessageRepo {
	return &MessageRepo{store: store}
}

// List returns every stored message, oldest first.
func (r *MessageRepo) List() ([]models.Message, error) {
	data, ok, err := r.store.Get(storage.KeyMessages)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

// Get fetches a single message by id.
func (r *MessageRepo) Get(messageID string) (models.Message, error) {
	msgs, err := r.List()
	if err != nil {
		return models.Message{}, err
	}
	for _, m := range msgs {
		if m.ID == messageID {
			return m, nil
		}
	}
	return models.Message{}, ErrMessageNotFound
}

// Append adds a message at the end of the collection.
func (r *MessageRepo) Append(msg models.Message) error {
	msgs, err := r.List()
	if err != nil {
		return err
	}
	return r.ReplaceAll(append(msgs, msg))
}

// Update replaces the message holding the same id.
func (r *MessageRepo) Update(msg models.Message) error {
	msgs, err := r.List()
	if err != nil {
		return err
	}
	for i, m := range msgs {
		if m.ID == msg.ID {
			msgs[i] = msg
			return r.ReplaceAll(msgs)
		}
	}
	return ErrMessageNotFound
}

// ReplaceAll persists the full collection.
func (r *MessageRepo) ReplaceAll(msgs []models.Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	return r.store.Set(storage.KeyMessages, data)
}

var _ MessageRepository = (*MessageRepo)(nil)
