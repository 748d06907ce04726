package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"securechat/internal/models"
	"securechat/internal/storage"
)

var ErrRoomNotFound = errors.New("room not found")

// RoomRepository abstracts room persistence.
type RoomRepository interface {
	List() ([]models.Room, error)
	Get(roomID string) (models.Room, error)
	Save(room models.Room) error
	CountOwnedBy(userID string) (int, error)
}

// RoomRepo is a key-value backed RoomRepository.
type RoomRepo struct {
	store storage.Store
}

// NewRoomRepo constructs a RoomRepo.
func NewRoomRepo(store storage.Store) *RoomRepo {
	return &RoomRepo{store: store}
}

// List returns all rooms in creation order.
func (r *RoomRepo) List() ([]models.Room, error) {
	data, ok, err := r.store.Get(storage.KeyRooms)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var rooms []models.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return rooms, nil
}

// Get fetches a room by id.
func (r *RoomRepo) Get(roomID string) (models.Room, error) {
	rooms, err := r.List()
	if err != nil {
		return models.Room{}, err
	}
	for _, room := range rooms {
		if room.ID == roomID {
			return room, nil
		}
	}
	return models.Room{}, ErrRoomNotFound
}

// Save inserts or replaces a room by id and persists the list.
func (r *RoomRepo) Save(room models.Room) error {
	rooms, err := r.List()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range rooms {
		if existing.ID == room.ID {
			rooms[i] = room
			replaced = true
			break
		}
	}
	if !replaced {
		rooms = append(rooms, room)
	}
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("encode rooms: %w", err)
	}
	return r.store.Set(storage.KeyRooms, data)
}

// CountOwnedBy returns how many rooms the user owns.
func (r *RoomRepo) CountOwnedBy(userID string) (int, error) {
	rooms, err := r.List()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, room := range rooms {
		if room.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

var _ RoomRepository = (*RoomRepo)(nil)
