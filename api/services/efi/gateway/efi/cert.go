package efigw

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// LoadCertificate decodes the base64 PKCS#12 bundle issued by Efí into a
// TLS client certificate. Efí bundles carry no passphrase.
func LoadCertificate(encoded string) (tls.Certificate, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("certificate is not valid base64: %w", err)
	}
	blocks, err := pkcs12.ToPEM(raw, "")
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to decode PKCS#12 certificate: %w", err)
	}
	var buf bytes.Buffer
	for _, b := range blocks {
		if err := pem.Encode(&buf, b); err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to encode PEM block: %w", err)
		}
	}
	return keyPair(buf.Bytes())
}

// keyPair builds a certificate from a PEM bundle holding both the
// certificate chain and the private key.
func keyPair(bundle []byte) (tls.Certificate, error) {
	cert, err := tls.X509KeyPair(bundle, bundle)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("invalid certificate key pair: %w", err)
	}
	return cert, nil
}
