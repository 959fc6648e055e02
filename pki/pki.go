// Copyright 2021 mamezou-tech. All rights reserved.

// Package pki creates the self-signed application instance certificate that
// an OPC UA server presents to its clients.
package pki

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
)

const (
	certFileName = "server.crt"
	keyFileName  = "server.key"
)

// Paths returns the certificate and key file paths within dir.
func Paths(dir string) (certPath, keyPath string) {
	return filepath.Join(dir, certFileName), filepath.Join(dir, keyFileName)
}

// ApplicationURI returns the application uri for appName on the local host.
// The uri is stored in the certificate and must match the server's ApplicationURI.
func ApplicationURI(appName string) string {
	host, _ := os.Hostname()
	return fmt.Sprintf("urn:%s:%s", host, appName)
}

// Ensure creates dir and a certificate and key for appName, if not found.
// It returns the paths of the certificate and key files.
func Ensure(dir, appName string) (certPath, keyPath string, err error) {
	certPath, keyPath = Paths(dir)

	// keep existing key material, if it loads
	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err == nil {
		return certPath, keyPath, nil
	}

	// make a pki directory, if not exist
	if err := os.MkdirAll(dir, os.ModeDir|0755); err != nil {
		return "", "", errors.Wrap(err, "Error creating pki directory")
	}

	cert, err := NewCertificate(appName)
	if err != nil {
		return "", "", err
	}
	if err := Write(cert, certPath, keyPath); err != nil {
		return "", "", errors.Wrap(err, "Error writing certificate")
	}
	return certPath, keyPath, nil
}

// NewCertificate creates a self-signed certificate for appName, valid for one year.
func NewCertificate(appName string) (tls.Certificate, error) {

	// create a keypair.
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, ua.BadCertificateInvalid
	}

	// create a certificate.
	host, _ := os.Hostname()
	applicationURI, _ := url.Parse(ApplicationURI(appName))
	serialNumber, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	subjectKeyHash := sha1.New()
	subjectKeyHash.Write(key.PublicKey.N.Bytes())
	subjectKeyId := subjectKeyHash.Sum(nil)

	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{CommonName: appName},
		SubjectKeyId:          subjectKeyId,
		AuthorityKeyId:        subjectKeyId,
		NotBefore:             time.Now(),
		NotAfter:              time.Now().AddDate(1, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageContentCommitment | x509.KeyUsageKeyEncipherment | x509.KeyUsageDataEncipherment | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{host, "localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		URIs:                  []*url.URL{applicationURI},
	}

	rawcrt, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, ua.BadCertificateInvalid
	}

	return tls.Certificate{
		PrivateKey:  key,
		Certificate: [][]byte{rawcrt},
	}, nil
}

// Write stores the certificate and its RSA private key as PEM files.
// Each file is written to a temporary file first and then renamed, so a
// failed write leaves no partial file behind.
func Write(cert tls.Certificate, certFile, keyFile string) error {
	key, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok || len(cert.Certificate) == 0 {
		return ua.BadCertificateInvalid
	}
	if err := writePEM(certFile, 0644, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Certificate[0]}); err != nil {
		return err
	}
	return writePEM(keyFile, 0600, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func writePEM(name string, perm os.FileMode, block *pem.Block) error {
	f, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	err = f.Chmod(perm)
	if err == nil {
		err = pem.Encode(f, block)
	}
	if errClose := f.Close(); err == nil {
		err = errClose
	}
	if err == nil {
		err = os.Rename(tmp, name)
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "Error writing '%s'", name)
	}
	return nil
}
