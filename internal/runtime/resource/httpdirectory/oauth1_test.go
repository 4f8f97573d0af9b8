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
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhotosSigner() *oauth1Signer {
	signer := newOAuth1Signer(OAuth1Settings{
		ConsumerKey:     "dpf43f3p2l4k3l03",
		ConsumerSecret:  "kd94hf93k423kf44",
		Token:           "nnch734d00sl2jdk",
		TokenSecret:     "pfkkdhi9sl3r4s00",
		Version:         "1.0",
		SignatureMethod: "HMAC-SHA1",
		Realm:           "http://photos.example.net/",
	})
	signer.now = func() time.Time { return time.Unix(1191242096, 0) }
	signer.nonce = func() string { return "kllo9940pd9333jh" }
	return signer
}

func TestSignatureBaseString(t *testing.T) {
	u, err := url.Parse("http://photos.example.net/photos?file=vacation.jpg&size=original")
	require.NoError(t, err)

	base := signatureBaseString("GET", u, map[string]string{
		"oauth_consumer_key":     "dpf43f3p2l4k3l03",
		"oauth_token":            "nnch734d00sl2jdk",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1191242096",
		"oauth_nonce":            "kllo9940pd9333jh",
		"oauth_version":          "1.0",
	})

	assert.Equal(t, "GET&http%3A%2F%2Fphotos.example.net%2Fphotos&file%3Dvacation.jpg%26"+
		"oauth_consumer_key%3Ddpf43f3p2l4k3l03%26oauth_nonce%3Dkllo9940pd9333jh%26"+
		"oauth_signature_method%3DHMAC-SHA1%26oauth_timestamp%3D1191242096%26"+
		"oauth_token%3Dnnch734d00sl2jdk%26oauth_version%3D1.0%26size%3Doriginal", base)
}

func TestAuthorizationHeader(t *testing.T) {
	u, err := url.Parse("http://photos.example.net/photos?file=vacation.jpg&size=original")
	require.NoError(t, err)

	header := newPhotosSigner().authorization("GET", u)

	assert.Equal(t, `OAuth realm="http%3A%2F%2Fphotos.example.net%2F",oauth_consumer_key="dpf43f3p2l4k3l03",`+
		`oauth_token="nnch734d00sl2jdk",oauth_signature_method="HMAC-SHA1",oauth_timestamp="1191242096",`+
		`oauth_nonce="kllo9940pd9333jh",oauth_version="1.0",oauth_signature="tR3%2BTy81lMeYAr%2FFid0kMTYa%2FWM%3D"`,
		header)
}

func TestBaseURL(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{"HTTP://Example.COM:80/r%20v/X?id=123", "http://example.com/r%20v/X"},
		{"https://www.example.net:8080/?q=1", "https://www.example.net:8080/"},
		{"https://example.net:443", "https://example.net/"},
	}
	for _, tc := range testCases {
		u, err := url.Parse(tc.raw)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, baseURL(u))
	}
}

func TestPercentEncode(t *testing.T) {
	assert.Equal(t, "Ladies%20%2B%20Gentlemen", percentEncode("Ladies + Gentlemen"))
	assert.Equal(t, "An%20encoded%20string%21", percentEncode("An encoded string!"))
	assert.Equal(t, "Dogs%2C%20Cats%20%26%20Mice", percentEncode("Dogs, Cats & Mice"))
	assert.Equal(t, "-._~", percentEncode("-._~"))
	assert.Equal(t, "%E2%98%83", percentEncode("☃"))
}
