package services

import "gin-itemtracker/models"

type ItemOperation int

const (
	OpListOwn ItemOperation = iota
	OpListAll
	OpRead
	OpCreate
	OpUpdate
	OpDelete
)

func (op ItemOperation) String() string {
	switch op {
	case OpListOwn:
		return "read-list-own"
	case OpListAll:
		return "read-list-all"
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// AuthorizeItem は副作用を持たない。
// 対象が存在しない場合は所有権より先にErrNotFoundを返す
func AuthorizeItem(caller *models.User, target *models.Item, op ItemOperation) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	switch op {
	case OpCreate:
		return nil
	case OpListOwn:
		if target != nil && target.OwnerID != caller.ID {
			return ErrForbidden
		}
		return nil
	case OpListAll:
		if !caller.IsSuperuser {
			return ErrForbidden
		}
		return nil
	case OpRead, OpUpdate, OpDelete:
		if target == nil {
			return ErrNotFound
		}
		if target.OwnerID != caller.ID && !caller.IsSuperuser {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}
