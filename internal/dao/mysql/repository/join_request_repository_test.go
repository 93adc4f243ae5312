package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"guard_bot_server/pkg/enum/join_request/request_status_enum"
	"guard_bot_server/pkg/errorx"
)

// newMockDB 基于 sqlmock 构造 GORM 实例
// SkipDefaultTransaction 与生产配置一致：单语句写入不包事务
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysqldriver.New(mysqldriver.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestUpdateStatusIfPendingSuccess(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	// 条件更新命中待处理行
	mock.ExpectExec("UPDATE .join_request. SET").
		WithArgs(request_status_enum.APPROVED, sqlmock.AnyArg(), "U20001", request_status_enum.PENDING).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatusIfPending("U20001", request_status_enum.APPROVED)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfPendingRaceLost(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	// 没有命中待处理行：重新查询发现已是终态
	mock.ExpectExec("UPDATE .join_request. SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "requester_id", "status"}).
		AddRow(1, "U20001", request_status_enum.APPROVED)
	mock.ExpectQuery("SELECT \\* FROM .join_request.").
		WillReturnRows(rows)

	err := repo.UpdateStatusIfPending("U20001", request_status_enum.EXPIRED)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeAlreadyDecided, errorx.GetCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfPendingNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	mock.ExpectExec("UPDATE .join_request. SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM .join_request.").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.UpdateStatusIfPending("U99999", request_status_enum.DECLINED)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUsesOnDuplicateKey(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	// 同一申请人的再次申请走 ON DUPLICATE KEY 覆盖
	mock.ExpectExec("INSERT INTO .join_request. .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert("U20001", "G30001", "小明")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotifiedIdempotent(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	mock.ExpectExec("UPDATE .join_request. SET").
		WithArgs(1, sqlmock.AnyArg(), "U20001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkNotified("U20001"))
	require.NoError(t, mock.ExpectationsWereMet())
}

// notified 已是 1 时 MySQL 报告 0 行变更，重复标记仍视为成功
func TestMarkNotifiedAlreadyMarkedIsSuccess(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	mock.ExpectExec("UPDATE .join_request. SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"id", "requester_id", "notified"}).
		AddRow(1, "U20001", 1)
	mock.ExpectQuery("SELECT \\* FROM .join_request.").
		WillReturnRows(rows)

	require.NoError(t, repo.MarkNotified("U20001"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotifiedUnknownRequester(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	mock.ExpectExec("UPDATE .join_request. SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM .join_request.").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.MarkNotified("U99999")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindStalePendingFiltersByStatusAndCutoff(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "requester_id", "origin_chat_id", "requested_at", "status"}).
		AddRow(1, "U20001", "G30001", time.Now().Add(-96*time.Hour), request_status_enum.PENDING).
		AddRow(2, "U20002", "G30001", time.Now().Add(-80*time.Hour), request_status_enum.PENDING)
	mock.ExpectQuery("SELECT \\* FROM .join_request. WHERE \\(?status = .* AND requested_at <=").
		WillReturnRows(rows)

	reqs, err := repo.FindStalePending(72 * time.Hour)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "U20001", reqs[0].RequesterId)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByRequesterIdNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJoinRequestRepository(gdb)

	mock.ExpectQuery("SELECT \\* FROM .join_request.").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByRequesterId("U99999")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
