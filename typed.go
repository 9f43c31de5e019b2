package docview

import (
	"github.com/aretw0/docview/pkg/typed"
)

// DocumentModel is a document whose value is decoded into T.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedChange is a change whose document is decoded into T.
type TypedChange[T any] = typed.Change[T]

// Documents decodes every document of snap into T, in result order.
func Documents[T any](snap *Snapshot) ([]*DocumentModel[T], error) {
	return typed.Documents[T](snap)
}

// Changes decodes the change list of snap into T.
func Changes[T any](snap *Snapshot) ([]TypedChange[T], error) {
	return typed.Changes[T](snap)
}
