// Package scriptdb is a small embedded-database access layer over SQLite.
//
// An instance is opened with a declared list of named migrations, which run
// once each and are recorded in the applied_migrations table, plus optional
// maintenance tasks: periodic tasks that run on an interval and query hooks
// that run after a number of completed operations. Once migrations succeed
// the instance serves CRUD helpers until Close cancels and joins every task
// and releases the connection.
//
// Schema text can be produced with the ddl package:
//
//	stmt, err := ddl.CreateTable("users").
//		PrimaryKey("id", ddl.Integer).
//		AddField("email", ddl.Text, ddl.NotNull(), ddl.Unique()).
//		Build()
//
//	db, err := scriptdb.Open(ctx, scriptdb.Config{
//		Path:       "/var/lib/app/app.db",
//		Migrations: []scriptdb.Migration{scriptdb.Script("001_users", stmt)},
//	})
package scriptdb
