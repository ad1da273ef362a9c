//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"messenger/domain"
	"messenger/errors"
)

type IMessageRepository interface {
	AppendMessage(message domain.Message) error
	FindMessage(id uuid.UUID) (domain.Message, error)
	UpdateMessageBody(id uuid.UUID, body string) error
	DeleteMessage(id uuid.UUID) error
	NullifyMessageParty(id uuid.UUID, userID string) error
	MessagesForConversation(convID string) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// AppendMessage persists a message under two keys: the ordered key that
// keeps per-conversation history chronologically sorted, and an id
// pointer so single-message lookups stay O(1) instead of a prefix scan.
func (r MessageRepository) AppendMessage(message domain.Message) error {
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	orderedKey := msgKey(message.ConversationID, message.CreatedAt, message.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(orderedKey, bytes); err != nil {
			return err
		}
		return txn.Set(msgIDKey(message.ID), orderedKey)
	})
}

func (r MessageRepository) FindMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		message, _, err = readMessageByID(txn, id)
		return err
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// UpdateMessageBody replaces the body, leaving CreatedAt and the ordered
// key untouched: a message never moves in the history.
func (r MessageRepository) UpdateMessageBody(id uuid.UUID, body string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		message, orderedKey, err := readMessageByID(txn, id)
		if err != nil {
			return err
		}
		message.Body = body
		bytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(orderedKey, bytes)
	})
}

// DeleteMessage removes the record and its id pointer.
func (r MessageRepository) DeleteMessage(id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		_, orderedKey, err := readMessageByID(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(orderedKey); err != nil {
			return err
		}
		return txn.Delete(msgIDKey(id))
	})
}

// NullifyMessageParty clears the caller's own slot on the message:
// the sender slot when the caller sent it, the receiver slot when the
// caller received it. The counterpart's slot is never touched, so the
// message stays visible to the other party.
func (r MessageRepository) NullifyMessageParty(id uuid.UUID, userID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		message, orderedKey, err := readMessageByID(txn, id)
		if err != nil {
			return err
		}
		switch {
		case message.SentBy(userID):
			message.SenderID = nil
		case message.ReceivedBy(userID):
			message.ReceiverID = nil
		default:
			r.log.Debug("self-delete skipped, user is not a party of the message",
				"message_id", id.String(), "user_id", userID)
			return nil
		}
		bytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(orderedKey, bytes)
	})
}

// MessagesForConversation returns the full history of a conversation in
// chronological order, relying on the padded timestamp in the key.
func (r MessageRepository) MessagesForConversation(convID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		messages, err = readMessages(txn, convID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func readMessageByID(txn *badger.Txn, id uuid.UUID) (domain.Message, []byte, error) {
	item, err := txn.Get(msgIDKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Message{}, nil, errors.ErrMessageNotFound
		}
		return domain.Message{}, nil, err
	}
	var orderedKey []byte
	if err = item.Value(func(val []byte) error {
		orderedKey = append([]byte(nil), val...)
		return nil
	}); err != nil {
		return domain.Message{}, nil, err
	}

	record, err := txn.Get(orderedKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Message{}, nil, errors.ErrMessageNotFound
		}
		return domain.Message{}, nil, err
	}
	var disk diskMessage
	if err = record.Value(func(val []byte) error {
		return json.Unmarshal(val, &disk)
	}); err != nil {
		return domain.Message{}, nil, err
	}
	return toMessage(disk), orderedKey, nil
}

func readMessages(txn *badger.Txn, convID string) ([]domain.Message, error) {
	var messages []domain.Message
	prefix := []byte(msgPrefix + convID + ":")
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var disk diskMessage
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
		if err != nil {
			return nil, err
		}
		messages = append(messages, toMessage(disk))
	}
	return messages, nil
}

// deleteMessages cascades a conversation delete over its history,
// removing both the ordered records and their id pointers.
func deleteMessages(txn *badger.Txn, convID string) error {
	var orderedKeys [][]byte
	var ids []uuid.UUID

	prefix := []byte(msgPrefix + convID + ":")
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().KeyCopy(nil)
		orderedKeys = append(orderedKeys, key)
		if id, err := uuid.Parse(lastSegment(key)); err == nil {
			ids = append(ids, id)
		}
	}
	it.Close()

	for _, key := range orderedKeys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if err := txn.Delete(msgIDKey(id)); err != nil {
			return err
		}
	}
	return nil
}
