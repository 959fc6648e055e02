// Copyright 2021 mamezou-tech. All rights reserved.

package pki_test

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"

	"github.com/mamezou-tech/opcua-sample/pki"
	"go.uber.org/goleak"
	"gotest.tools/assert"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEnsure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pki")

	certPath, keyPath, err := pki.Ensure(dir, "simpleserver")
	assert.NilError(t, err)
	assert.Equal(t, certPath, filepath.Join(dir, "server.crt"))
	assert.Equal(t, keyPath, filepath.Join(dir, "server.key"))

	// the files load as a key pair
	pair, err := tls.LoadX509KeyPair(certPath, keyPath)
	assert.NilError(t, err)
	crt, err := x509.ParseCertificate(pair.Certificate[0])
	assert.NilError(t, err)
	assert.Equal(t, crt.Subject.CommonName, "simpleserver")
	assert.Equal(t, len(crt.URIs), 1)
	assert.Equal(t, crt.URIs[0].String(), pki.ApplicationURI("simpleserver"))

	t.Run("keeps existing key material", func(t *testing.T) {
		before, err := os.ReadFile(certPath)
		assert.NilError(t, err)
		_, _, err = pki.Ensure(dir, "simpleserver")
		assert.NilError(t, err)
		after, err := os.ReadFile(certPath)
		assert.NilError(t, err)
		assert.DeepEqual(t, after, before)
	})

	t.Run("truncated key material is replaced", func(t *testing.T) {
		before, err := os.ReadFile(certPath)
		assert.NilError(t, err)
		assert.NilError(t, os.WriteFile(certPath, before[:len(before)/2], 0644))

		_, _, err = pki.Ensure(dir, "simpleserver")
		assert.NilError(t, err)
		_, err = tls.LoadX509KeyPair(certPath, keyPath)
		assert.NilError(t, err)

		// no temporary files are left behind
		entries, err := os.ReadDir(dir)
		assert.NilError(t, err)
		assert.Equal(t, len(entries), 2)
	})

	t.Run("key file is private", func(t *testing.T) {
		fi, err := os.Stat(keyPath)
		assert.NilError(t, err)
		assert.Equal(t, fi.Mode().Perm(), os.FileMode(0600))
	})
}

func TestWriteRejectsEmptyCertificate(t *testing.T) {
	dir := t.TempDir()
	err := pki.Write(tls.Certificate{}, filepath.Join(dir, "a.crt"), filepath.Join(dir, "a.key"))
	assert.Assert(t, err != nil)
}
