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

// Package httpdirectory provides a directory backed by an HTTP endpoint.
package httpdirectory

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"

	"github.com/tma-comms/metl/internal/runtime/constants"
	"github.com/tma-comms/metl/internal/runtime/resource"
	sysconst "github.com/tma-comms/metl/internal/system/constants"
	"github.com/tma-comms/metl/internal/system/error/flowerror"
	syshttp "github.com/tma-comms/metl/internal/system/http"
	"github.com/tma-comms/metl/internal/system/log"
)

// RequestOptions adds headers and query parameters to a single request.
type RequestOptions struct {
	Headers    map[string]string
	Parameters map[string]string
}

// HTTPDirectory is a single shot directory: every call issues one request to the configured url.
type HTTPDirectory struct {
	settings      Settings
	httpClient    syshttp.HTTPClientInterface
	signer        *oauth1Signer
	contentLength int64
	logger        *log.Logger
}

var _ resource.DirectoryInterface = (*HTTPDirectory)(nil)

// NewHTTPDirectory creates a directory for the given settings.
func NewHTTPDirectory(settings Settings, httpClient syshttp.HTTPClientInterface) *HTTPDirectory {
	d := &HTTPDirectory{
		settings:   settings,
		httpClient: httpClient,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "HTTPDirectory"),
			log.String("url", settings.URL)),
	}
	if settings.Security == SecurityOAuth1 {
		d.signer = newOAuth1Signer(settings.OAuth1)
	}
	return d
}

// Capabilities reports input and output stream support only.
func (d *HTTPDirectory) Capabilities() resource.Capabilities {
	return resource.Capabilities{
		InputStream:           true,
		OutputStream:          true,
		Delete:                false,
		RequiresContentLength: false,
	}
}

// Connect is a no-op, each call opens its own connection.
func (d *HTTPDirectory) Connect(ctx context.Context) error {
	return nil
}

// GetInputStream issues the request and returns the response body. Only status 200 is accepted.
func (d *HTTPDirectory) GetInputStream(ctx context.Context, relativePath string, mustExist bool) (
	io.ReadCloser, error) {
	return d.GetInputStreamWithOptions(ctx, relativePath, RequestOptions{})
}

// GetInputStreamWithOptions is GetInputStream with extra headers and query parameters.
func (d *HTTPDirectory) GetInputStreamWithOptions(ctx context.Context, relativePath string,
	opts RequestOptions) (io.ReadCloser, error) {
	req, err := d.buildRequest(ctx, relativePath, opts, nil)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Sending request", log.String("method", req.Method), log.String("path", relativePath))
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, flowerror.Newf(constants.ErrorResourceUnavailable, err, "Request to %s failed", d.settings.URL)
	}
	if resp.StatusCode != http.StatusOK {
		d.drain(resp)
		return nil, flowerror.Newf(constants.ErrorUnexpectedResponseCode, nil,
			"Received an unexpected response code of %d", resp.StatusCode)
	}

	body, err := syshttp.ResponseBody(resp)
	if err != nil {
		return nil, flowerror.New(constants.ErrorResourceUnavailable, err)
	}
	return body, nil
}

// GetOutputStream returns a buffered writer. Closing it sends the request with the written body.
func (d *HTTPDirectory) GetOutputStream(ctx context.Context, relativePath string, mustExist bool) (
	io.WriteCloser, error) {
	return d.GetOutputStreamWithOptions(ctx, relativePath, RequestOptions{})
}

// GetOutputStreamWithOptions is GetOutputStream with extra headers and query parameters.
func (d *HTTPDirectory) GetOutputStreamWithOptions(ctx context.Context, relativePath string,
	opts RequestOptions) (io.WriteCloser, error) {
	return &outputStream{ctx: ctx, directory: d, relativePath: relativePath, opts: opts}, nil
}

// Delete is not supported.
func (d *HTTPDirectory) Delete(ctx context.Context, relativePath string) error {
	return resource.Unsupported("delete")
}

// CopyFile is not supported.
func (d *HTTPDirectory) CopyFile(ctx context.Context, fromPath, toPath string) error {
	return resource.Unsupported("copy")
}

// MoveFile is not supported.
func (d *HTTPDirectory) MoveFile(ctx context.Context, fromPath, toPath string) error {
	return resource.Unsupported("move")
}

// RenameFile is not supported.
func (d *HTTPDirectory) RenameFile(ctx context.Context, fromPath, toPath string) error {
	return resource.Unsupported("rename")
}

// ListFiles is not supported.
func (d *HTTPDirectory) ListFiles(ctx context.Context, relativePaths ...string) ([]resource.FileInfo, error) {
	return nil, resource.Unsupported("list")
}

// SetContentLength records the length of the next output body.
func (d *HTTPDirectory) SetContentLength(length int64) {
	d.contentLength = length
}

// Close is a no-op.
func (d *HTTPDirectory) Close() error {
	return nil
}

func (d *HTTPDirectory) buildRequest(ctx context.Context, relativePath string, opts RequestOptions,
	body io.Reader) (*http.Request, error) {
	requestURL, err := url.Parse(d.settings.URL + relativePath)
	if err != nil {
		return nil, flowerror.Newf(constants.ErrorInvalidSetting, err, "Invalid request url")
	}
	if len(opts.Parameters) > 0 {
		query := requestURL.Query()
		for k, v := range opts.Parameters {
			query.Set(k, v)
		}
		requestURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, d.settings.Method, requestURL.String(), body)
	if err != nil {
		return nil, flowerror.Newf(constants.ErrorInvalidSetting, err, "Invalid request")
	}

	switch d.settings.Security {
	case SecurityBasic:
		credentials := base64.StdEncoding.EncodeToString([]byte(d.settings.Username + ":" + d.settings.Password))
		req.Header.Set(sysconst.AuthorizationHeaderName, sysconst.TokenTypeBasic+" "+credentials)
		if d.logger.IsDebugEnabled() {
			d.logger.Debug("Using basic authentication", log.String("username", log.MaskString(d.settings.Username)))
		}
	case SecurityToken:
		req.Header.Set(sysconst.AuthorizationHeaderName, sysconst.TokenTypeBearer+" "+d.settings.Token)
	case SecurityOAuth1:
		req.Header.Set(sysconst.AuthorizationHeaderName, d.signer.authorization(req.Method, req.URL))
	}
	if d.settings.ContentType != "" {
		req.Header.Set(sysconst.ContentTypeHeaderName, d.settings.ContentType)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (d *HTTPDirectory) drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	if err := resp.Body.Close(); err != nil {
		d.logger.Debug("Failed to close response body", log.Error(err))
	}
}

// outputStream buffers the body until Close.
type outputStream struct {
	ctx          context.Context
	directory    *HTTPDirectory
	relativePath string
	opts         RequestOptions
	buf          bytes.Buffer
	closed       bool
}

func (o *outputStream) Write(p []byte) (int, error) {
	if o.closed {
		return 0, io.ErrClosedPipe
	}
	return o.buf.Write(p)
}

// Close sends the request. Any 2xx status is accepted.
func (o *outputStream) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	d := o.directory
	req, err := d.buildRequest(o.ctx, o.relativePath, o.opts, bytes.NewReader(o.buf.Bytes()))
	if err != nil {
		return err
	}
	req.ContentLength = int64(o.buf.Len())

	d.logger.Debug("Sending request", log.String("method", req.Method), log.String("path", o.relativePath),
		log.Int64("contentLength", req.ContentLength))
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return flowerror.Newf(constants.ErrorResourceUnavailable, err, "Request to %s failed", d.settings.URL)
	}
	d.drain(resp)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return flowerror.Newf(constants.ErrorUnexpectedResponseCode, nil,
			"Received an unexpected response code of %d", resp.StatusCode)
	}
	return nil
}
