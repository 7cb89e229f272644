// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package crud

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/tombee/restop/internal/operr"
	"github.com/tombee/restop/pkg/resource"
)

// bodyPayload is a serialized request body with its content headers.
type bodyPayload struct {
	data    []byte
	headers map[string]string
}

// buildBody serializes the body-located fields according to the
// operation's body kind. A nil payload means the request has no body.
func (h *Handler) buildBody(op *resource.Operation, itemIndex int) (*bodyPayload, error) {
	record, err := h.extractRecord(op, resource.LocationBody, itemIndex)
	if err != nil {
		return nil, err
	}

	switch op.Body {
	case resource.BodyMultipart:
		return h.buildMultipartBody(record, itemIndex)
	default:
		return buildJSONBody(record)
	}
}

// buildJSONBody marshals the body record as a JSON document. An empty
// record yields no body at all.
func buildJSONBody(record any) (*bodyPayload, error) {
	if m, ok := record.(map[string]any); ok && len(m) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot encode request body")
	}
	return &bodyPayload{
		data:    data,
		headers: map[string]string{"Content-Type": "application/json"},
	}, nil
}

// buildMultipartBody assembles a multipart/form-data upload from the
// body record and the named binary attachment of the current input item.
// The record must carry binaryPropertyName, descriptions, and internal;
// the internal flag part is only emitted when set.
func (h *Handler) buildMultipartBody(record any, itemIndex int) (*bodyPayload, error) {
	fields, ok := record.(map[string]any)
	if !ok {
		return nil, operr.New(operr.TypeValidation, "multipart upload requires an object body")
	}

	propertyName, ok := fields["binaryPropertyName"].(string)
	if !ok || propertyName == "" {
		return nil, operr.New(operr.TypeValidation, "multipart upload requires the binary property name")
	}
	description, ok := fields["descriptions"].(string)
	if !ok {
		return nil, operr.New(operr.TypeValidation, "multipart upload requires a description")
	}
	internal, ok := fields["internal"].(bool)
	if !ok {
		return nil, operr.New(operr.TypeValidation, "multipart upload requires the internal flag")
	}

	if h.deps.Items == nil {
		return nil, operr.New(operr.TypeConfiguration, "resource %q has no input item source for uploads", h.resource)
	}
	item, err := h.deps.Items.Item(itemIndex)
	if err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot read input item %d", itemIndex)
	}
	attachment, ok := item.Binary[propertyName]
	if !ok {
		return nil, operr.New(operr.TypeValidation,
			"input item %d has no binary data under %q", itemIndex, propertyName)
	}

	payload, err := base64.StdEncoding.DecodeString(attachment.Data)
	if err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "binary data under %q is not valid base64", propertyName)
	}

	fileName := attachment.FileName
	if fileName == "" {
		fileName = "file"
	}
	mimeType := attachment.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filePart, err := createFilePart(writer, fileName, mimeType)
	if err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot build upload body")
	}
	if _, err := filePart.Write(payload); err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot build upload body")
	}
	if err := writer.WriteField("descriptions", description); err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot build upload body")
	}
	if internal {
		if err := writer.WriteField("internal", "true"); err != nil {
			return nil, operr.Wrap(operr.TypeValidation, err, "cannot build upload body")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, operr.Wrap(operr.TypeValidation, err, "cannot build upload body")
	}

	return &bodyPayload{
		data: buf.Bytes(),
		headers: map[string]string{
			"Content-Type":   writer.FormDataContentType(),
			"Content-Length": strconv.Itoa(buf.Len()),
		},
	}, nil
}

var partNameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// createFilePart opens the file part of the upload. The API expects the
// part under the fixed name "files" with the attachment's file name and
// media type.
func createFilePart(writer *multipart.Writer, fileName, mimeType string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, partNameEscaper.Replace(fileName)))
	header.Set("Content-Type", mimeType)
	return writer.CreatePart(header)
}
