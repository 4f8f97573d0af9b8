/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package httpdirectory

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by OAuth 1.0.
	"encoding/base64"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tma-comms/metl/internal/system/utils"
)

// oauth1Signer builds OAuth 1.0 authorization headers signed with HMAC-SHA1.
type oauth1Signer struct {
	settings OAuth1Settings
	now      func() time.Time
	nonce    func() string
}

func newOAuth1Signer(settings OAuth1Settings) *oauth1Signer {
	return &oauth1Signer{
		settings: settings,
		now:      time.Now,
		nonce: func() string {
			return strings.ReplaceAll(utils.GenerateUUID(), "-", "")
		},
	}
}

// authorization returns the Authorization header value for the request.
func (s *oauth1Signer) authorization(method string, requestURL *url.URL) string {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	nonce := s.nonce()

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.settings.ConsumerKey,
		"oauth_nonce":            nonce,
		"oauth_signature_method": s.settings.SignatureMethod,
		"oauth_timestamp":        timestamp,
		"oauth_version":          s.settings.Version,
	}
	if s.settings.Token != "" {
		oauthParams["oauth_token"] = s.settings.Token
	}

	signature := s.sign(method, requestURL, oauthParams)

	return fmt.Sprintf(`OAuth realm="%s",oauth_consumer_key="%s",oauth_token="%s",`+
		`oauth_signature_method="%s",oauth_timestamp="%s",oauth_nonce="%s",`+
		`oauth_version="%s",oauth_signature="%s"`,
		percentEncode(s.settings.Realm), percentEncode(s.settings.ConsumerKey), percentEncode(s.settings.Token),
		percentEncode(s.settings.SignatureMethod), timestamp, percentEncode(nonce),
		percentEncode(s.settings.Version), percentEncode(signature))
}

// sign computes the base64 HMAC-SHA1 signature over the signature base string.
func (s *oauth1Signer) sign(method string, requestURL *url.URL, oauthParams map[string]string) string {
	key := percentEncode(s.settings.ConsumerSecret) + "&" + percentEncode(s.settings.TokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(signatureBaseString(method, requestURL, oauthParams)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signatureBaseString joins the method, the base url and the normalized parameters.
func signatureBaseString(method string, requestURL *url.URL, oauthParams map[string]string) string {
	pairs := make([]string, 0, len(oauthParams))
	for k, v := range oauthParams {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
	}
	for k, values := range requestURL.Query() {
		for _, v := range values {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}
	sort.Strings(pairs)

	return strings.ToUpper(method) + "&" + percentEncode(baseURL(requestURL)) + "&" +
		percentEncode(strings.Join(pairs, "&"))
}

// baseURL returns the url without query and fragment, dropping the default port of the scheme.
func baseURL(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !(scheme == "http" && port == "80") && !(scheme == "https" && port == "443") {
		host += ":" + port
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path
}

// percentEncode encodes everything except the unreserved characters of RFC 3986.
func percentEncode(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}
