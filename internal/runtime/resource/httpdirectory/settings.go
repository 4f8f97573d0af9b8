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
	"net/http"
	"net/url"
	"time"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/setting"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
)

// Setting keys of an Http resource.
const (
	SettingURL                   = "url"
	SettingHTTPMethod            = "http.method"
	SettingContentType           = "content.type"
	SettingHTTPTimeout           = "http.timeout"
	SettingSecurity              = "security"
	SettingUsername              = "security.username"
	SettingPassword              = "security.password"
	SettingToken                 = "security.token"
	SettingOAuth1ConsumerKey     = "oauth1.consumer.key"
	SettingOAuth1ConsumerSecret  = "oauth1.consumer.secret"
	SettingOAuth1Token           = "oauth1.token"
	SettingOAuth1TokenSecret     = "oauth1.token.secret"
	SettingOAuth1Version         = "oauth1.version"
	SettingOAuth1SignatureMethod = "oauth1.signature.method"
	SettingOAuth1Realm           = "oauth1.realm"
)

// Security schemes.
const (
	SecurityNone   = "None"
	SecurityBasic  = "Basic Auth"
	SecurityToken  = "Token Auth"
	SecurityOAuth1 = "OAuth 1.0"
)

const signatureMethodHMACSHA1 = "HMAC-SHA1"

// OAuth1Settings holds the OAuth 1.0 credentials.
type OAuth1Settings struct {
	ConsumerKey     string
	ConsumerSecret  string
	Token           string
	TokenSecret     string
	Version         string
	SignatureMethod string
	Realm           string
}

// Settings is the typed configuration of an Http resource.
type Settings struct {
	URL         string
	Method      string
	ContentType string
	Timeout     time.Duration
	Security    string
	Username    string
	Password    string
	Token       string
	OAuth1      OAuth1Settings
}

// NewSettings materializes and validates the settings of an Http resource.
// The default timeout applies when http.timeout is not set.
func NewSettings(s setting.Settings, defaultTimeout time.Duration) (Settings, error) {
	rawURL, err := s.Require(SettingURL)
	if err != nil {
		return Settings{}, err
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return Settings{}, flowerror.Newf(constants.ErrorInvalidSetting, err, "The '%s' setting is not a valid url",
			SettingURL)
	}
	method, err := s.GetChoice(SettingHTTPMethod, http.MethodGet, http.MethodGet, http.MethodPut, http.MethodPost)
	if err != nil {
		return Settings{}, err
	}
	timeoutMillis, err := s.GetInt(SettingHTTPTimeout, int(defaultTimeout/time.Millisecond))
	if err != nil {
		return Settings{}, err
	}
	if timeoutMillis < 0 {
		return Settings{}, flowerror.Newf(constants.ErrorInvalidSetting, nil, "The '%s' setting must not be negative",
			SettingHTTPTimeout)
	}
	security, err := s.GetChoice(SettingSecurity, SecurityNone,
		SecurityNone, SecurityBasic, SecurityToken, SecurityOAuth1)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		URL:         rawURL,
		Method:      method,
		ContentType: s.GetString(SettingContentType, ""),
		Timeout:     time.Duration(timeoutMillis) * time.Millisecond,
		Security:    security,
		Username:    s.GetString(SettingUsername, ""),
		Password:    s.GetRaw(SettingPassword, ""),
		Token:       s.GetString(SettingToken, ""),
	}

	switch security {
	case SecurityBasic:
		if settings.Username == "" {
			return Settings{}, flowerror.Newf(constants.ErrorMissingSetting, nil, "The '%s' setting is required",
				SettingUsername)
		}
	case SecurityToken:
		if settings.Token == "" {
			return Settings{}, flowerror.Newf(constants.ErrorMissingSetting, nil, "The '%s' setting is required",
				SettingToken)
		}
	case SecurityOAuth1:
		oauth1, err := newOAuth1Settings(s)
		if err != nil {
			return Settings{}, err
		}
		settings.OAuth1 = oauth1
	}
	return settings, nil
}

func newOAuth1Settings(s setting.Settings) (OAuth1Settings, error) {
	consumerKey, err := s.Require(SettingOAuth1ConsumerKey)
	if err != nil {
		return OAuth1Settings{}, err
	}
	consumerSecret, err := s.Require(SettingOAuth1ConsumerSecret)
	if err != nil {
		return OAuth1Settings{}, err
	}
	signatureMethod, err := s.GetChoice(SettingOAuth1SignatureMethod, signatureMethodHMACSHA1, signatureMethodHMACSHA1)
	if err != nil {
		return OAuth1Settings{}, err
	}
	return OAuth1Settings{
		ConsumerKey:     consumerKey,
		ConsumerSecret:  consumerSecret,
		Token:           s.GetString(SettingOAuth1Token, ""),
		TokenSecret:     s.GetRaw(SettingOAuth1TokenSecret, ""),
		Version:         s.GetString(SettingOAuth1Version, "1.0"),
		SignatureMethod: signatureMethod,
		Realm:           s.GetString(SettingOAuth1Realm, ""),
	}, nil
}
