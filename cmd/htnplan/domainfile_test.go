package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	return full
}

func TestDiscoverDomainFile_PlainSibling(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "domain.json")
	problem := touch(t, dir, "problem.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_DomainPrefixedStem(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "domain-elevator.json")
	problem := touch(t, dir, "elevator.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_DomainSuffixedStem(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "elevator-domain.json")
	problem := touch(t, dir, "elevator.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_ProblemToDomainSubstitution(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "elevator-domain-01.json")
	problem := touch(t, dir, "elevator-problem-01.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_ProbToDomSubstitution(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "dom-01.json")
	problem := touch(t, dir, "prob-01.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_SatprobSubstitution(t *testing.T) {
	dir := t.TempDir()
	domain := touch(t, dir, "satdom-01.json")
	problem := touch(t, dir, "satprob-01.json")

	got, err := discoverDomainFile(problem)
	require.NoError(t, err)
	assert.Equal(t, domain, got)
}

func TestDiscoverDomainFile_NoneFound(t *testing.T) {
	dir := t.TempDir()
	problem := touch(t, dir, "problem.json")

	_, err := discoverDomainFile(problem)
	assert.Error(t, err)
}

func TestDiscoverDomainFile_NeverReturnsProblemItself(t *testing.T) {
	dir := t.TempDir()
	problem := touch(t, dir, "domain.json")

	_, err := discoverDomainFile(problem)
	assert.Error(t, err, "problem named domain.json must not be returned as its own domain file")
}
