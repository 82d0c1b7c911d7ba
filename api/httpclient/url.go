package httpclient

import "net/url"

// resolve interprets location relative to the URL that produced it.
func resolve(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	next, err := base.Parse(location)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}
