package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/config"
	"student-records/internal/logger"
	"student-records/internal/storage"
)

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(config.Database{Driver: storage.DriverSQLite, Path: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCourse(t *testing.T, m *CourseModel, code, name string) int64 {
	t.Helper()
	id, err := m.Create(context.Background(), Course{Code: code, Name: name, Lecturer: "Dr. Smith", Credits: 3})
	require.NoError(t, err)
	return id
}

func validStudent(no string) Student {
	return Student{StudentNo: no, FirstName: "John", LastName: "Doe", Email: "john.doe@university.edu"}
}

func TestStudentCreateAssignsUniqueIDs(t *testing.T) {
	store := openStore(t)
	students := NewStudentModel(store)
	courses := NewCourseModel(store)
	ctx := context.Background()

	courseID := seedCourse(t, courses, "CS101", "Computer Science")

	seen := map[int64]bool{}
	for _, no := range []string{"S1001", "S1002", "S1003"} {
		s := validStudent(no)
		s.CourseID = &courseID
		id, err := students.Create(ctx, s)
		require.NoError(t, err)
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true

		got, err := students.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, no, got.StudentNo)
		assert.Equal(t, "John Doe", got.FullName())
		require.NotNil(t, got.CourseID)
		assert.Equal(t, courseID, *got.CourseID)
		assert.Equal(t, "Computer Science", got.CourseName)
	}
}

func TestStudentCreateTrimsAndValidates(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	_, err := students.Create(ctx, Student{StudentNo: "  ", FirstName: "Jane", LastName: "", Email: "invalid-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Tag
	}
	assert.Equal(t, "required", fields["student_no"])
	assert.Equal(t, "required", fields["last_name"])
	assert.Equal(t, "email", fields["email"])

	n, err := students.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStudentDuplicateNumber(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	_, err := students.Create(ctx, validStudent("S1001"))
	require.NoError(t, err)

	dup := validStudent("S1001")
	dup.FirstName = "Jane"
	_, err = students.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStudentGetMissing(t *testing.T) {
	students := NewStudentModel(openStore(t))

	_, err := students.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStudentUpdate(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	id, err := students.Create(ctx, validStudent("S1004"))
	require.NoError(t, err)

	changed := validStudent("S1004")
	changed.FirstName = "Updated"
	require.NoError(t, students.Update(ctx, id, changed))

	got, err := students.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.FirstName)
	assert.Equal(t, id, got.ID)
}

func TestStudentUpdateMissingLeavesTableUnchanged(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	_, err := students.Create(ctx, validStudent("S1001"))
	require.NoError(t, err)
	before, err := students.Count(ctx)
	require.NoError(t, err)

	err = students.Update(ctx, 999, validStudent("S2000"))
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := students.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	all, err := students.Search(ctx, StudentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "S1001", all[0].StudentNo)
}

func TestStudentDeleteTwice(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	id, err := students.Create(ctx, validStudent("S1005"))
	require.NoError(t, err)

	require.NoError(t, students.Delete(ctx, id))
	err = students.Delete(ctx, id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStudentSearch(t *testing.T) {
	store := openStore(t)
	students := NewStudentModel(store)
	courses := NewCourseModel(store)
	ctx := context.Background()

	cs := seedCourse(t, courses, "CS101", "Computer Science")
	math := seedCourse(t, courses, "MATH101", "Mathematics")

	for _, s := range []Student{
		{StudentNo: "S3", FirstName: "Charlie", LastName: "Brown", Email: "charlie@uni.edu", CourseID: &cs},
		{StudentNo: "S1", FirstName: "Alice", LastName: "Johnson", Email: "alice.j@uni.edu", CourseID: &math},
		{StudentNo: "S2", FirstName: "Bob", LastName: "Williams", Email: "bob.w@uni.edu"},
	} {
		_, err := students.Create(ctx, s)
		require.NoError(t, err)
	}

	all, err := students.Search(ctx, StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := students.Search(ctx, StudentFilter{Text: "Zed"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	byText, err := students.Search(ctx, StudentFilter{Text: "alice"})
	require.NoError(t, err)
	require.Len(t, byText, 1)
	assert.Equal(t, "S1", byText[0].StudentNo)

	byFullName, err := students.Search(ctx, StudentFilter{Text: "bob williams"})
	require.NoError(t, err)
	require.Len(t, byFullName, 1)

	byCourse, err := students.Search(ctx, StudentFilter{CourseID: &cs})
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, "Charlie", byCourse[0].FirstName)

	sorted, err := students.Search(ctx, StudentFilter{SortBy: "student_no"})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"S1", "S2", "S3"},
		[]string{sorted[0].StudentNo, sorted[1].StudentNo, sorted[2].StudentNo})

	_, err = students.Search(ctx, StudentFilter{SortBy: "shoe_size"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestStudentSearchTreatsInputLiterally(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	_, err := students.Create(ctx, validStudent("S1001"))
	require.NoError(t, err)

	for _, text := range []string{"' OR '1'='1' --", "%", "_"} {
		got, err := students.Search(ctx, StudentFilter{Text: text})
		require.NoError(t, err)
		assert.Empty(t, got, "search %q", text)
	}
}

func TestStudentSearchNonASCII(t *testing.T) {
	students := NewStudentModel(openStore(t))
	ctx := context.Background()

	_, err := students.Create(ctx, Student{StudentNo: "S1", FirstName: "Émile", LastName: "Zoë", Email: "emile@uni.edu"})
	require.NoError(t, err)
	_, err = students.Create(ctx, validStudent("S2"))
	require.NoError(t, err)

	for _, text := range []string{"Émile", "émile", "ÉMILE", "zoë", "ZOË"} {
		got, err := students.Search(ctx, StudentFilter{Text: text})
		require.NoError(t, err)
		require.Len(t, got, 1, "search %q", text)
		assert.Equal(t, "S1", got[0].StudentNo)
	}

	byField, err := students.Search(ctx, StudentFilter{FirstName: "ÉM"})
	require.NoError(t, err)
	assert.Len(t, byField, 1)
}

func TestStudentDanglingCourse(t *testing.T) {
	store := openStore(t)
	students := NewStudentModel(store)
	courses := NewCourseModel(store)
	ctx := context.Background()

	courseID := seedCourse(t, courses, "BIO101", "Biology I")
	s := validStudent("S7")
	s.CourseID = &courseID
	id, err := students.Create(ctx, s)
	require.NoError(t, err)

	require.NoError(t, courses.Delete(ctx, courseID))

	got, err := students.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.HasDanglingCourse())
	assert.Empty(t, got.CourseName)
}
