package searchprovider

import (
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/godbus/dbus/v5"
)

const (
	metaKeyID          = "id"
	metaKeyName        = "name"
	metaKeyDescription = "description"
)

// DecodeMetas converts raw GetResultMetas maps. Each field is decoded on its
// own; an entry without a string id is dropped, while a missing or malformed
// name leaves Name empty.
func DecodeMetas(raw []map[string]dbus.Variant) []ResultMeta {
	metas := make([]ResultMeta, 0, len(raw))
	for i, entry := range raw {
		meta, err := decodeMeta(entry)
		if err != nil {
			events.Remote.SkipMeta(i, err.Error())
			continue
		}
		metas = append(metas, meta)
	}
	return metas
}

func decodeMeta(entry map[string]dbus.Variant) (ResultMeta, error) {
	id, ok := variantString(entry, metaKeyID)
	if !ok {
		return ResultMeta{}, fmt.Errorf("meta without string %q", metaKeyID)
	}
	if id == "" {
		return ResultMeta{}, fmt.Errorf("meta with empty %q", metaKeyID)
	}
	name, _ := variantString(entry, metaKeyName)
	desc, _ := variantString(entry, metaKeyDescription)
	return ResultMeta{ID: id, Name: name, Description: desc}, nil
}

func variantString(entry map[string]dbus.Variant, key string) (string, bool) {
	v, ok := entry[key]
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}

// EncodeMeta builds the wire map for meta.
func EncodeMeta(meta ResultMeta) map[string]dbus.Variant {
	out := map[string]dbus.Variant{
		metaKeyID:   dbus.MakeVariant(meta.ID),
		metaKeyName: dbus.MakeVariant(meta.Name),
	}
	if meta.Description != "" {
		out[metaKeyDescription] = dbus.MakeVariant(meta.Description)
	}
	return out
}
