//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"messenger/domain"
	"messenger/errors"
)

type IConversationRepository interface {
	FindConversationsByUser(userID string) ([]domain.Conversation, error)
	FindConversation(id string) (domain.Conversation, error)
	DeleteConversation(userID, id string) error
	CreateGroup(creatorID, name, description, imageRef string, memberIDs []string) (domain.Conversation, error)
	FindOrCreateDirect(a, b string) (domain.Conversation, error)
	FindRole(groupID, userID string) (domain.Role, error)
	UpdateRole(groupID, userID string, role domain.Role) error
	UpdateStatus(groupID string, status domain.Status) error
	AddMember(groupID, userID string, role domain.Role) error
	Members(convID string) ([]domain.Membership, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// FindConversationsByUser lists every conversation the user is a member
// of, with memberships and full message history attached, ordered by
// conversation id. The userconv index keeps this a single prefix scan
// instead of a walk over all conversations.
func (r ConversationRepository) FindConversationsByUser(userID string) ([]domain.Conversation, error) {
	var ids []string
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userConvPrefix + userID + ":")
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, lastSegment(it.Item().Key()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	conversations := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, err := r.FindConversation(id)
		if err != nil {
			// Index entry pointing at a record deleted concurrently.
			if errors.ErrConversationNotFound == err {
				continue
			}
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

// FindConversation loads one conversation with its memberships and
// message history.
func (r ConversationRepository) FindConversation(id string) (domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.View(func(txn *badger.Txn) error {
		loaded, err := readConversation(txn, id)
		if err != nil {
			return err
		}
		conv = loaded

		conv.Members, err = readMembers(txn, id)
		if err != nil {
			return err
		}
		conv.Messages, err = readMessages(txn, id)
		return err
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// DeleteConversation removes the conversation and cascades to its
// memberships, indexes and messages. The delete is scoped by membership:
// when userID is not a member the call succeeds without touching
// anything, so a caller can never delete someone else's unrelated
// conversation by guessing its id.
func (r ConversationRepository) DeleteConversation(userID, id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(memberKey(id, userID)); err != nil {
			if err == badger.ErrKeyNotFound {
				r.log.Debug("conversation delete skipped, caller is not a member",
					"conversation_id", id, "user_id", userID)
				return nil
			}
			return err
		}

		conv, err := readConversation(txn, id)
		if err != nil {
			return err
		}
		members, err := readMembers(txn, id)
		if err != nil {
			return err
		}

		for _, m := range members {
			if err = txn.Delete(memberKey(id, m.UserID)); err != nil {
				return err
			}
			if err = txn.Delete(userConvKey(m.UserID, id)); err != nil {
				return err
			}
		}
		if conv.Kind == domain.KindDirect && len(members) == 2 {
			if err = txn.Delete(directKey(members[0].UserID, members[1].UserID)); err != nil {
				return err
			}
		}
		if err = deleteMessages(txn, id); err != nil {
			return err
		}
		return txn.Delete(convKey(id))
	})
}

// CreateGroup persists a GROUP conversation in OPEN state. The creator
// joins as ADMIN, every other listed member as PARTICIPANT. The image is
// already resolved to a durable reference by the blob store upstream.
func (r ConversationRepository) CreateGroup(creatorID, name, description, imageRef string, memberIDs []string) (domain.Conversation, error) {
	now := time.Now().UTC()
	conv := domain.Conversation{
		ID:          uuid.NewString(),
		Kind:        domain.KindGroup,
		Name:        name,
		Description: description,
		ImageRef:    imageRef,
		Status:      domain.StatusOpen,
		CreatedAt:   now,
	}

	memberships := []domain.Membership{
		{ConversationID: conv.ID, UserID: creatorID, Role: domain.RoleAdmin, JoinedAt: now},
	}
	for _, id := range memberIDs {
		if id == creatorID {
			continue
		}
		memberships = append(memberships, domain.Membership{
			ConversationID: conv.ID, UserID: id, Role: domain.RoleParticipant, JoinedAt: now,
		})
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if err := writeConversation(txn, conv); err != nil {
			return err
		}
		for _, m := range memberships {
			if err := writeMembership(txn, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	conv.Members = memberships
	return conv, nil
}

// FindOrCreateDirect resolves the direct conversation between two users,
// creating it exactly once. The direct index key is checked and written
// inside a single transaction, so two racing first messages cannot
// produce duplicate conversation rows.
func (r ConversationRepository) FindOrCreateDirect(a, b string) (domain.Conversation, error) {
	var convID string
	now := time.Now().UTC()
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(directKey(a, b))
		if err == nil {
			return item.Value(func(val []byte) error {
				convID = string(val)
				return nil
			})
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		conv := domain.Conversation{
			ID:        uuid.NewString(),
			Kind:      domain.KindDirect,
			CreatedAt: now,
		}
		convID = conv.ID
		if err = writeConversation(txn, conv); err != nil {
			return err
		}
		for _, userID := range []string{a, b} {
			m := domain.Membership{
				ConversationID: conv.ID, UserID: userID,
				Role: domain.RoleParticipant, JoinedAt: now,
			}
			if err = writeMembership(txn, m); err != nil {
				return err
			}
		}
		return txn.Set(directKey(a, b), []byte(conv.ID))
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return r.FindConversation(convID)
}

// FindRole resolves a user's role inside a group. The role gate calls
// this before any admin-only operation.
func (r ConversationRepository) FindRole(groupID, userID string) (domain.Role, error) {
	var role domain.Role
	err := r.db.View(func(txn *badger.Txn) error {
		m, err := readMembership(txn, groupID, userID)
		if err != nil {
			return err
		}
		role = m.Role
		return nil
	})
	if err != nil {
		return "", err
	}
	return role, nil
}

// UpdateRole sets a member's role. The current-role comparison happens
// inside the transaction so two concurrent promotions cannot both
// succeed: the race on read-modify-write is resolved here, not by the
// caller.
func (r ConversationRepository) UpdateRole(groupID, userID string, role domain.Role) error {
	return r.db.Update(func(txn *badger.Txn) error {
		m, err := readMembership(txn, groupID, userID)
		if err != nil {
			return err
		}
		if m.Role == role {
			return errors.ErrRoleConflict
		}
		m.Role = role
		return writeMembership(txn, m)
	})
}

// UpdateStatus overwrites the group status. Both OPEN->LOCKED and
// LOCKED->OPEN are always permitted; authorization happened at the gate.
func (r ConversationRepository) UpdateStatus(groupID string, status domain.Status) error {
	return r.db.Update(func(txn *badger.Txn) error {
		conv, err := readConversation(txn, groupID)
		if err != nil {
			return err
		}
		if conv.Kind != domain.KindGroup {
			return errors.ErrNotGroup
		}
		conv.Status = status
		return writeConversation(txn, conv)
	})
}

// AddMember joins a user to a group as the given role. The membership
// key is unique per (conversation, user) pair, so a duplicate join is a
// no-op instead of a second membership row; an existing member keeps
// their current role.
func (r ConversationRepository) AddMember(groupID, userID string, role domain.Role) error {
	now := time.Now().UTC()
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(convKey(groupID)); err != nil {
			if err == badger.ErrKeyNotFound {
				return errors.ErrConversationNotFound
			}
			return err
		}
		if _, err := txn.Get(memberKey(groupID, userID)); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		m := domain.Membership{
			ConversationID: groupID, UserID: userID, Role: role, JoinedAt: now,
		}
		return writeMembership(txn, m)
	})
}

// Members lists the memberships of a conversation.
func (r ConversationRepository) Members(convID string) ([]domain.Membership, error) {
	var members []domain.Membership
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		members, err = readMembers(txn, convID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

func readConversation(txn *badger.Txn, id string) (domain.Conversation, error) {
	item, err := txn.Get(convKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Conversation{}, errors.ErrConversationNotFound
		}
		return domain.Conversation{}, err
	}
	var disk diskConversation
	if err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &disk)
	}); err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(disk), nil
}

func writeConversation(txn *badger.Txn, conv domain.Conversation) error {
	bytes, err := json.Marshal(fromConversation(conv))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(convKey(conv.ID), bytes)
}

func readMembership(txn *badger.Txn, convID, userID string) (domain.Membership, error) {
	item, err := txn.Get(memberKey(convID, userID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return domain.Membership{}, errors.ErrNotGroupMember
		}
		return domain.Membership{}, err
	}
	var disk diskMembership
	if err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &disk)
	}); err != nil {
		return domain.Membership{}, err
	}
	return toMembership(disk), nil
}

func writeMembership(txn *badger.Txn, m domain.Membership) error {
	bytes, err := json.Marshal(fromMembership(m))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err = txn.Set(memberKey(m.ConversationID, m.UserID), bytes); err != nil {
		return err
	}
	return txn.Set(userConvKey(m.UserID, m.ConversationID), nil)
}

func readMembers(txn *badger.Txn, convID string) ([]domain.Membership, error) {
	var members []domain.Membership
	prefix := []byte(memberPrefix + convID + ":")
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var disk diskMembership
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
		if err != nil {
			return nil, err
		}
		members = append(members, toMembership(disk))
	}
	return members, nil
}
