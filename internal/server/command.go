// Copyright 2025 go-highway Authors
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

package server

import "github.com/vectorlsh/annlsh/internal/protocol"

// execute decodes and runs a single command frame: ["get"|"put", dataset,
// blob]. The dataset identifier is reserved for future multi-dataset
// routing and is never inspected.
func (s *Server) execute(cmd protocol.Frame) protocol.Frame {
	if cmd.Kind != protocol.KindArray || len(cmd.Array) != 3 {
		return protocol.Err("malformed command: expected a 3-element array")
	}

	name, ok := frameText(cmd.Array[0])
	if !ok {
		return protocol.Err("malformed command: unreadable command name")
	}

	blobFrame := cmd.Array[2]
	if blobFrame.Kind != protocol.KindBulk || blobFrame.Bulk == nil {
		return protocol.Err("malformed command: missing vector blob")
	}

	switch name {
	case "get":
		return s.handleGet(blobFrame.Bulk)
	case "put":
		return s.handlePut(blobFrame.Bulk)
	default:
		return protocol.Err("unknown command: " + name)
	}
}

func frameText(f protocol.Frame) (string, bool) {
	switch f.Kind {
	case protocol.KindSimple:
		return f.Str, true
	case protocol.KindBulk:
		if f.Bulk == nil {
			return "", false
		}
		return string(f.Bulk), true
	default:
		return "", false
	}
}

func (s *Server) handleGet(blob []byte) protocol.Frame {
	v, err := protocol.DecodeVectorBlob(s.width, blob)
	if err != nil {
		return protocol.Err(err.Error())
	}

	s.mu.RLock()
	result, ok, err := s.idx.Query(v)
	s.mu.RUnlock()
	if err != nil {
		return protocol.Err(err.Error())
	}
	if !ok {
		return protocol.Null()
	}
	return protocol.Bulk(protocol.EncodeVectorBody(result))
}

func (s *Server) handlePut(blob []byte) protocol.Frame {
	v, err := protocol.DecodeVectorBlob(s.width, blob)
	if err != nil {
		return protocol.Err(err.Error())
	}

	s.mu.Lock()
	err = s.idx.Insert(v)
	s.mu.Unlock()
	if err != nil {
		return protocol.Err(err.Error())
	}
	return protocol.Simple("OK")
}
