// Copyright 2024 The Bakery Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompileFilesWritesCompiledBytes(t *testing.T) {
	dir := t.TempDir()
	recPath := filepath.Join(dir, "v.rec")
	datPath := filepath.Join(dir, "v.dat")
	outPath := filepath.Join(dir, "v.bin")

	if err := os.WriteFile(recPath, []byte("i8"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(datPath, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := compileFiles(recPath, datPath, outPath, false, false); err != nil {
		t.Fatalf("compileFiles: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x2a}; !cmp.Equal(got, want) {
		t.Fatalf("compiled bytes = %x, want %x", got, want)
	}
}

func TestCompileFilesMissingRecipeFile(t *testing.T) {
	dir := t.TempDir()
	datPath := filepath.Join(dir, "v.dat")
	if err := os.WriteFile(datPath, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := compileFiles(filepath.Join(dir, "missing.rec"), datPath, "", false, false)
	if err == nil {
		t.Fatal("expected an error for a missing recipe file")
	}
}

func TestCompileFilesDumpIRDoesNotWriteOutput(t *testing.T) {
	dir := t.TempDir()
	recPath := filepath.Join(dir, "v.rec")
	datPath := filepath.Join(dir, "v.dat")
	outPath := filepath.Join(dir, "v.bin")

	if err := os.WriteFile(recPath, []byte("struct{x:i32,y:i32}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(datPath, []byte("x:1,y:2"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := compileFiles(recPath, datPath, outPath, false, true); err != nil {
		t.Fatalf("compileFiles --dump_ir: %v", err)
	}

	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Fatalf("expected --dump_ir to never create the output file, stat err = %v", err)
	}
}