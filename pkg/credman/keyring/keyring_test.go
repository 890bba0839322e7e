package keyring

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func stubKeyring(t *testing.T) map[string]string {
	t.Helper()
	store := make(map[string]string)
	origSet, origGet, origDelete := keyringSet, keyringGet, keyringDelete
	keyringSet = func(service, user, value string) error {
		store[service+"/"+user] = value
		return nil
	}
	keyringGet = func(service, user string) (string, error) {
		v, ok := store[service+"/"+user]
		if !ok {
			return "", errors.New("secret not found")
		}
		return v, nil
	}
	keyringDelete = func(service, user string) error {
		delete(store, service+"/"+user)
		return nil
	}
	t.Cleanup(func() {
		keyringSet, keyringGet, keyringDelete = origSet, origGet, origDelete
	})
	return store
}

func TestSetKeyStoresHexEncoded(t *testing.T) {
	store := stubKeyring(t)
	k := NewKeyring()
	key, err := k.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d, want 32", len(key))
	}
	stored, ok := store["plantd/session"]
	if !ok {
		t.Fatal("key not written to keyring")
	}
	decoded, err := hex.DecodeString(stored)
	if err != nil {
		t.Fatalf("stored key is not hex: %v", err)
	}
	if !bytes.Equal(decoded, key) {
		t.Fatal("stored key does not match returned key")
	}
}

func TestGetOrCreateKeyIsStable(t *testing.T) {
	stubKeyring(t)
	k := NewKeyring()
	first, err := k.GetOrCreateKey()
	if err != nil {
		t.Fatalf("GetOrCreateKey: %v", err)
	}
	second, err := k.GetOrCreateKey()
	if err != nil {
		t.Fatalf("GetOrCreateKey: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("key changed between calls")
	}
}

func TestDeleteKey(t *testing.T) {
	stubKeyring(t)
	k := NewKeyring()
	if _, err := k.SetKey(); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if err := k.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := k.GetKey(); err == nil {
		t.Fatal("key still present after delete")
	}
}
