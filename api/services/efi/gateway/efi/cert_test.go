package efigw

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfSignedPEM returns a PEM bundle with a throwaway client certificate and its key.
func selfSignedPEM(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "efi-proxy-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, pem.Encode(&buf, &pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}))
	return buf.Bytes()
}

func testCertificate(t *testing.T) tls.Certificate {
	t.Helper()
	cert, err := keyPair(selfSignedPEM(t))
	require.NoError(t, err)
	return cert
}

func TestKeyPair_FromBundle(t *testing.T) {
	cert, err := keyPair(selfSignedPEM(t))
	require.NoError(t, err)
	assert.Len(t, cert.Certificate, 1)
	assert.NotNil(t, cert.PrivateKey)
}

func TestKeyPair_MissingKey(t *testing.T) {
	bundle := selfSignedPEM(t)
	block, _ := pem.Decode(bundle)
	_, err := keyPair(pem.EncodeToMemory(block))
	require.Error(t, err)
}

func TestLoadCertificate_InvalidBase64(t *testing.T) {
	_, err := LoadCertificate("not base64!!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64")
}

func TestLoadCertificate_NotPKCS12(t *testing.T) {
	_, err := LoadCertificate(base64.StdEncoding.EncodeToString([]byte("definitely not a p12 bundle")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PKCS#12")
}
