package container

import (
	"fmt"
)

// LinkOpKind operación sobre una colección de movimientos.
type LinkOpKind string

const (
	LinkAdd     LinkOpKind = "add"
	LinkRemove  LinkOpKind = "remove"
	LinkReplace LinkOpKind = "replace"
)

// LinkOp una operación del link-set.
type LinkOp struct {
	Kind LinkOpKind
	IDs  []string
}

// ApplyLinkOps aplica las operaciones en orden sobre current y devuelve la colección resultante
// (sin duplicados, conservando el orden de inserción) y los IDs que no estaban en current.
func ApplyLinkOps(current []string, ops []LinkOp) (result []string, added []string, err error) {
	result = dedupe(current)
	for _, op := range ops {
		switch op.Kind {
		case LinkAdd:
			result = dedupe(append(result, op.IDs...))
		case LinkRemove:
			drop := toSet(op.IDs)
			kept := result[:0:0]
			for _, id := range result {
				if _, ok := drop[id]; !ok {
					kept = append(kept, id)
				}
			}
			result = kept
		case LinkReplace:
			result = dedupe(op.IDs)
		default:
			return nil, nil, fmt.Errorf("operación de enlace desconocida: %q", op.Kind)
		}
	}
	before := toSet(current)
	for _, id := range result {
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}
	return result, added, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
